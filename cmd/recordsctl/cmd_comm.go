package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
)

func (cli *commandLine) runComm(ctx context.Context, args []string) error {
	const usage = "Usage: comm submit|list|respond|read|delete"
	if len(args) == 0 {
		fmt.Fprintln(cli.out, usage)
		return errHelp
	}

	switch args[0] {
	case "submit":
		fs := cli.newFlagSet("comm submit")
		commType := fs.String("type", string(models.CommQuery), "query, feedback or announcement")
		subject := fs.String("subject", "", "Subject line")
		message := fs.String("message", "", "Message text")
		sender := fs.String("sender", "", "Sender user id")
		name := fs.String("name", "", "Sender name")
		senderEmail := fs.String("email", "", "Sender email")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if *subject == "" || *message == "" {
			return cli.usage(fs, "comm submit -subject TEXT -message TEXT [options]")
		}
		comm := &models.Communication{
			Type:        models.CommunicationType(*commType),
			Subject:     *subject,
			MessageText: *message,
			SenderID:    sender,
			SenderName:  name,
			SenderEmail: senderEmail,
		}
		id, err := cli.svc.Communications.Submit(ctx, comm)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "%s %d submitted (%s).\n", comm.Type, id, comm.Status)
		return nil
	case "list":
		fs := cli.newFlagSet("comm list")
		commType := fs.String("type", "", "Only this type")
		status := fs.String("status", "", "Only this status")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		comms, err := cli.svc.Communications.List(ctx, models.CommunicationFilter{
			Type:   models.CommunicationType(*commType),
			Status: models.CommunicationStatus(*status),
		})
		if err != nil {
			return err
		}
		if len(comms) == 0 {
			fmt.Fprintln(cli.out, "No messages.")
			return nil
		}
		rows := make([][]string, 0, len(comms))
		for _, c := range comms {
			rows = append(rows, []string{
				strconv.FormatInt(c.ID, 10), c.Timestamp, string(c.Type), string(c.Status),
				helpers.Deref(c.SenderName), c.Subject,
			})
		}
		return cli.printTable([]string{"ID", "Time", "Type", "Status", "From", "Subject"}, rows)
	case "respond":
		if len(args) < 3 {
			fmt.Fprintln(cli.out, "Usage: comm respond ID TEXT...")
			return errHelp
		}
		id, err := parseID("comm_id", args[1])
		if err != nil {
			return err
		}
		if err := cli.svc.Communications.Respond(ctx, id, strings.Join(args[2:], " ")); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Response saved for %d.\n", id)
		return nil
	case "read", "delete":
		if len(args) != 2 {
			fmt.Fprintf(cli.out, "Usage: comm %s ID\n", args[0])
			return errHelp
		}
		id, err := parseID("comm_id", args[1])
		if err != nil {
			return err
		}
		if args[0] == "read" {
			err = cli.svc.Communications.MarkRead(ctx, id)
		} else {
			err = cli.svc.Communications.Delete(ctx, id)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Message %d updated.\n", id)
		return nil
	default:
		fmt.Fprintln(cli.out, usage)
		return errHelp
	}
}
