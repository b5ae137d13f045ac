package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/pkg/export"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

func (cli *commandLine) runMark(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(cli.out, "Usage: mark add|list|delete")
		return errHelp
	}

	switch args[0] {
	case "add":
		fs := cli.newFlagSet("mark add")
		student := fs.String("student", "", "Student id or roll number")
		course := fs.String("course", "", "Course name, defaults to the student's course")
		subject := fs.String("subject", "", "Subject name")
		semester := fs.Int("semester", 0, "Semester number")
		obtained := fs.Float64("obtained", 0, "Marks obtained")
		maxMarks := fs.Float64("max", 100, "Maximum marks")
		grade := fs.String("grade", "", "Grade, derived from the score when empty")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if *student == "" || *subject == "" {
			return cli.usage(fs, "mark add -student ID|ROLL -subject NAME -semester N -obtained X [-max Y] [-course NAME] [-grade G]")
		}
		s, err := cli.resolveStudent(ctx, *student)
		if err != nil {
			return err
		}
		var courseID int64
		if s.CourseID != nil {
			courseID = *s.CourseID
		}
		if *course != "" {
			id, err := cli.courseID(ctx, *course)
			if err != nil {
				return err
			}
			courseID = *id
		}
		if courseID == 0 {
			return validation.Field("course_id", "course is required")
		}
		mark := &models.Mark{
			StudentID:     s.ID,
			CourseID:      courseID,
			SubjectName:   *subject,
			Semester:      *semester,
			MarksObtained: *obtained,
			MaxMarks:      *maxMarks,
			Grade:         *grade,
		}
		id, err := cli.svc.Marks.Add(ctx, mark)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Mark %d recorded for %s (grade %s).\n", id, s.RollNumber, mark.Grade)
		return nil
	case "list":
		if len(args) != 2 {
			fmt.Fprintln(cli.out, "Usage: mark list ID|ROLL")
			return errHelp
		}
		s, err := cli.resolveStudent(ctx, args[1])
		if err != nil {
			return err
		}
		marks, err := cli.svc.Marks.ListForStudent(ctx, s.ID)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(marks))
		for _, m := range marks {
			rows = append(rows, []string{
				strconv.FormatInt(m.ID, 10), strconv.Itoa(m.Semester), m.SubjectName,
				strconv.FormatFloat(m.MarksObtained, 'f', -1, 64), strconv.FormatFloat(m.MaxMarks, 'f', -1, 64), m.Grade,
			})
		}
		return cli.printTable([]string{"ID", "Semester", "Subject", "Obtained", "Max", "Grade"}, rows)
	case "delete":
		if len(args) != 2 {
			fmt.Fprintln(cli.out, "Usage: mark delete MARK_ID")
			return errHelp
		}
		id, err := parseID("mark_id", args[1])
		if err != nil {
			return err
		}
		if err := cli.svc.Marks.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Mark %d deleted.\n", id)
		return nil
	default:
		fmt.Fprintln(cli.out, "Usage: mark add|list|delete")
		return errHelp
	}
}

func (cli *commandLine) runPayment(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(cli.out, "Usage: payment add|list|receipt")
		return errHelp
	}

	switch args[0] {
	case "add":
		fs := cli.newFlagSet("payment add")
		student := fs.String("student", "", "Student id or roll number")
		amount := fs.Float64("amount", 0, "Amount paid")
		date := fs.String("date", "", "Payment date (YYYY-MM-DD), defaults to today")
		payType := fs.String("type", "", "Payment type, e.g. Tuition")
		receipt := fs.String("receipt", "", "Receipt number, generated when empty")
		desc := fs.String("desc", "", "Description")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if *student == "" {
			return cli.usage(fs, "payment add -student ID|ROLL -amount X [options]")
		}
		s, err := cli.resolveStudent(ctx, *student)
		if err != nil {
			return err
		}
		p, err := cli.svc.Payments.Record(ctx, &models.Payment{
			StudentID:     s.ID,
			AmountPaid:    *amount,
			PaymentDate:   *date,
			PaymentType:   payType,
			ReceiptNumber: *receipt,
			Description:   desc,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Payment of %.2f recorded, receipt %s.\n", p.AmountPaid, p.ReceiptNumber)
		return nil
	case "list":
		if len(args) != 2 {
			fmt.Fprintln(cli.out, "Usage: payment list ID|ROLL")
			return errHelp
		}
		s, err := cli.resolveStudent(ctx, args[1])
		if err != nil {
			return err
		}
		payments, err := cli.svc.Payments.ListForStudent(ctx, s.ID)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(payments))
		for _, p := range payments {
			rows = append(rows, []string{
				p.PaymentDate, fmt.Sprintf("%.2f", p.AmountPaid), helpers.Deref(p.PaymentType), p.ReceiptNumber,
			})
		}
		return cli.printTable([]string{"Date", "Amount", "Type", "Receipt#"}, rows)
	case "receipt":
		fs := cli.newFlagSet("payment receipt")
		if len(args) < 2 || strings.HasPrefix(args[1], "-") {
			fmt.Fprintln(cli.out, "Usage: payment receipt RECEIPT_NO [-csv PATH] [-pdf PATH] [-email ADDR]")
			return errHelp
		}
		csvPath := fs.String("csv", "", "Write the receipt as CSV to this path")
		pdfPath := fs.String("pdf", "", "Write the receipt as PDF to this path")
		to := fs.String("email", "", "Email the receipt to this address")
		if err := parse(fs, args[2:]); err != nil {
			return err
		}
		number := args[1]
		delivered := false
		for _, out := range []struct {
			format export.Format
			path   string
		}{{export.FormatCSV, *csvPath}, {export.FormatPDF, *pdfPath}} {
			if out.path == "" {
				continue
			}
			if err := cli.svc.Distribution.ExportReceipt(ctx, number, out.format, out.path); err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "Receipt written to %s.\n", out.path)
			delivered = true
		}
		if *to != "" {
			if err := cli.svc.Distribution.EmailReceipt(ctx, number, *to); err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "Receipt emailed to %s.\n", *to)
			delivered = true
		}
		if delivered {
			return nil
		}
		receipt, err := cli.svc.Payments.GetByReceipt(ctx, number)
		if err != nil {
			return err
		}
		return cli.printResult(receipt.ReceiptNumber, services.ReceiptTable(receipt))
	default:
		fmt.Fprintln(cli.out, "Usage: payment add|list|receipt")
		return errHelp
	}
}

