package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/export"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
)

func (cli *commandLine) runReport(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("report")
	csvPath := fs.String("csv", "", "Export the report as CSV to this path")
	pdfPath := fs.String("pdf", "", "Export the report as PDF to this path")
	to := fs.String("email", "", "Email the report as a PDF to this address")
	roll := fs.String("roll", "", "Roll number (StudentMarks, PaymentHistory)")
	since := fs.String("since", "", "First payment date, inclusive (PaymentHistory)")
	until := fs.String("until", "", "Last payment date, inclusive (PaymentHistory)")

	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		cli.printUsage()
		return errHelp
	}
	reportType, err := cli.svc.Reports.Parse(args[0])
	if err != nil {
		return err
	}
	if err := parse(fs, args[1:]); err != nil {
		return err
	}
	params := models.ReportParams{RollNumber: *roll, Since: *since, Until: *until}

	delivered := false
	for _, out := range []struct {
		format export.Format
		path   string
	}{{export.FormatCSV, *csvPath}, {export.FormatPDF, *pdfPath}} {
		if out.path == "" {
			continue
		}
		if err := cli.svc.Distribution.ExportReport(ctx, reportType, params, out.format, out.path); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "%s written to %s.\n", reportType.Title(), out.path)
		delivered = true
	}
	if *to != "" {
		if err := cli.svc.Distribution.EmailReport(ctx, reportType, params, *to); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "%s emailed to %s.\n", reportType.Title(), *to)
		delivered = true
	}
	if delivered {
		return nil
	}

	result, err := cli.svc.Reports.Build(ctx, reportType, params)
	if err != nil {
		return err
	}
	return cli.printResult(reportType.Title(), result)
}

// printResult shows a tabular result on screen.
func (cli *commandLine) printResult(title string, result *models.TabularResult) error {
	fmt.Fprintln(cli.out, title)
	if result.Empty() {
		fmt.Fprintln(cli.out, "No data.")
		return nil
	}
	return cli.printTable(result.Headers, result.Rows)
}

func (cli *commandLine) runLog(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] != "list" {
		fmt.Fprintln(cli.out, "Usage: log list [-type ARTEFACT] [-status STATUS] [-limit N]")
		return errHelp
	}
	fs := cli.newFlagSet("log list")
	artefact := fs.String("type", "", "Artefact type: report, receipt or id_card")
	status := fs.String("status", "", "Delivery status: Sent, Completed or Failed")
	limit := fs.Uint64("limit", 0, "Show at most N entries")
	if err := parse(fs, args[1:]); err != nil {
		return err
	}

	entries, err := cli.svc.Deliveries.List(ctx, models.DeliveryFilter{
		ArtefactType: *artefact,
		Status:       models.DeliveryStatus(*status),
		Limit:        *limit,
	})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(cli.out, "No deliveries logged.")
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10), e.Timestamp, e.ArtefactType, e.ArtefactIdentifier,
			e.RecipientAddress, string(e.Channel), string(e.DeliveryStatus), helpers.Deref(e.ErrorMessage),
		})
	}
	return cli.printTable([]string{"ID", "Time", "Artefact", "Identifier", "Recipient", "Channel", "Status", "Error"}, rows)
}
