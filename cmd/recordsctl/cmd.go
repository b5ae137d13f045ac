package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	svc     *services.Services
	out     io.Writer
	migrate func(ctx context.Context) error
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  init                                        - apply migrations and default data")
	fmt.Fprintln(cli.out, "  student add|get|list|update|delete|restore|purge|search")
	fmt.Fprintln(cli.out, "  mark add|list|delete                        - subject marks")
	fmt.Fprintln(cli.out, "  payment add|list|receipt                    - fee payments and receipts")
	fmt.Fprintln(cli.out, "  report TYPE [-csv PATH] [-pdf PATH] [-email ADDR]")
	fmt.Fprintln(cli.out, "  comm submit|list|respond|read|delete        - queries, feedback and announcements")
	fmt.Fprintln(cli.out, "  user register|login|passwd                  - user accounts")
	fmt.Fprintln(cli.out, "  log list                                    - delivery log")
	fmt.Fprintln(cli.out, "Report types:")
	for _, rt := range models.ReportTypes {
		fmt.Fprintf(cli.out, "  %-18s %s\n", rt, rt.Title())
	}
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "init":
		return cli.initStore(ctx)
	case "student":
		return cli.runStudent(ctx, args[2:])
	case "mark":
		return cli.runMark(ctx, args[2:])
	case "payment":
		return cli.runPayment(ctx, args[2:])
	case "report":
		return cli.runReport(ctx, args[2:])
	case "comm":
		return cli.runComm(ctx, args[2:])
	case "user":
		return cli.runUser(ctx, args[2:])
	case "log":
		return cli.runLog(ctx, args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) initStore(ctx context.Context) error {
	if err := cli.migrate(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Database ready.")
	return nil
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// parse parses args into fs and maps -h to errHelp.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return err
	}
	return nil
}

// visited returns the names of the flags set on the command line.
func visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// optional returns &v when name was given on the command line.
func optional(set map[string]bool, name, v string) *string {
	if !set[name] {
		return nil
	}
	return &v
}

// optionalFloat parses v when name was given on the command line.
func optionalFloat(set map[string]bool, name, v string) (*float64, error) {
	if !set[name] || strings.TrimSpace(v) == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: name, Error: name + " must be a number"})
	}
	return &f, nil
}

func parseID(field, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(apperrors.FieldError{Field: field, Error: fmt.Sprintf("invalid %s %q", strings.ReplaceAll(field, "_", " "), s)})
	}
	return id, nil
}

// usage prints fs usage with a synopsis line and returns errHelp.
func (cli *commandLine) usage(fs *flag.FlagSet, synopsis string) error {
	fmt.Fprintf(cli.out, "Usage: %s\n", synopsis)
	fs.PrintDefaults()
	return errHelp
}

func (cli *commandLine) table() *tabwriter.Writer {
	return tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
}

// printTable writes a header row and rows as aligned columns.
func (cli *commandLine) printTable(headers []string, rows [][]string) error {
	w := cli.table()
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func (cli *commandLine) promptPassword(prompt string) (string, error) {
	fmt.Fprint(cli.out, prompt)
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
