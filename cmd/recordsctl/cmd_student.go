package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
)

// studentFlags are the editable student fields shared by add and update.
type studentFlags struct {
	fs *flag.FlagSet

	roll, name, email, contact, address, aadhaar, dob *string
	gender, blood, mother, status, date, course, year *string
	tenth, twelfth, userID, picture                   *string
}

func (cli *commandLine) newStudentFlags(name string) *studentFlags {
	fs := cli.newFlagSet(name)
	return &studentFlags{
		fs:      fs,
		roll:    fs.String("roll", "", "Roll number"),
		name:    fs.String("name", "", "Full name"),
		email:   fs.String("email", "", "Email address"),
		contact: fs.String("contact", "", "Contact number"),
		address: fs.String("address", "", "Postal address"),
		aadhaar: fs.String("aadhaar", "", "12 digit Aadhaar number"),
		dob:     fs.String("dob", "", "Date of birth (YYYY-MM-DD)"),
		gender:  fs.String("gender", "", "Male, Female or Other"),
		blood:   fs.String("blood", "", "Blood group, e.g. O+"),
		mother:  fs.String("mother", "", "Mother's name"),
		status:  fs.String("status", "", "Enrollment status: active or inactive"),
		date:    fs.String("date", "", "Enrollment date (YYYY-MM-DD), defaults to today"),
		course:  fs.String("course", "", "Course name, e.g. BCA"),
		year:    fs.String("year", "", "Academic year name, e.g. First Year"),
		tenth:   fs.String("tenth", "", "10th percentage"),
		twelfth: fs.String("twelfth", "", "12th percentage"),
		userID:  fs.String("user", "", "Linked user id"),
		picture: fs.String("picture", "", "Profile picture path"),
	}
}

func (cli *commandLine) runStudent(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(cli.out, "Usage: student add|get|list|update|delete|restore|purge|search")
		return errHelp
	}

	switch args[0] {
	case "add":
		return cli.addStudent(ctx, args[1:])
	case "get":
		if len(args) != 2 {
			fmt.Fprintln(cli.out, "Usage: student get ID|ROLL")
			return errHelp
		}
		s, err := cli.resolveStudent(ctx, args[1])
		if err != nil {
			return err
		}
		return cli.printStudent(ctx, s)
	case "list":
		fs := cli.newFlagSet("student list")
		bin := fs.Bool("bin", false, "List only students in the bin")
		all := fs.Bool("all", false, "Include students in the bin")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		var (
			students []*models.Student
			err      error
		)
		if *bin {
			students, err = cli.svc.Students.ListBin(ctx)
		} else {
			students, err = cli.svc.Students.List(ctx, *all)
		}
		if err != nil {
			return err
		}
		return cli.printStudents(ctx, students)
	case "update":
		return cli.updateStudent(ctx, args[1:])
	case "delete", "restore", "purge":
		return cli.changeStudents(ctx, args[0], args[1:])
	case "search":
		fs := cli.newFlagSet("student search")
		field := fs.String("field", string(models.SearchByName), "Field to search: name, roll_number, course or email")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		students, err := cli.svc.Students.Search(ctx, models.SearchField(*field), strings.Join(fs.Args(), " "))
		if err != nil {
			return err
		}
		return cli.printStudents(ctx, students)
	default:
		fmt.Fprintln(cli.out, "Usage: student add|get|list|update|delete|restore|purge|search")
		return errHelp
	}
}

func (cli *commandLine) addStudent(ctx context.Context, args []string) error {
	f := cli.newStudentFlags("student add")
	if err := parse(f.fs, args); err != nil {
		return err
	}
	if *f.roll == "" || *f.name == "" {
		return cli.usage(f.fs, "student add -roll ROLL -name NAME [options]")
	}
	set := visited(f.fs)

	student := &models.Student{
		RollNumber:         *f.roll,
		Name:               *f.name,
		UserID:             optional(set, "user", *f.userID),
		ContactNumber:      optional(set, "contact", *f.contact),
		Email:              optional(set, "email", *f.email),
		Address:            optional(set, "address", *f.address),
		AadhaarNo:          optional(set, "aadhaar", *f.aadhaar),
		DateOfBirth:        optional(set, "dob", *f.dob),
		Gender:             optional(set, "gender", *f.gender),
		BloodGroup:         optional(set, "blood", *f.blood),
		MotherName:         optional(set, "mother", *f.mother),
		EnrollmentStatus:   models.EnrollmentStatus(*f.status),
		EnrollmentDate:     *f.date,
		ProfilePicturePath: optional(set, "picture", *f.picture),
	}
	var err error
	if student.TenthPercent, err = optionalFloat(set, "tenth", *f.tenth); err != nil {
		return err
	}
	if student.TwelfthPercent, err = optionalFloat(set, "twelfth", *f.twelfth); err != nil {
		return err
	}
	if student.CourseID, err = cli.courseID(ctx, *f.course); err != nil {
		return err
	}
	if student.AcademicYearID, err = cli.yearID(ctx, *f.year); err != nil {
		return err
	}

	id, err := cli.svc.Students.Create(ctx, student)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Student %s added with id %d.\n", student.RollNumber, id)
	return nil
}

func (cli *commandLine) updateStudent(ctx context.Context, args []string) error {
	f := cli.newStudentFlags("student update")
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return cli.usage(f.fs, "student update ID|ROLL [options]")
	}
	if err := parse(f.fs, args[1:]); err != nil {
		return err
	}
	s, err := cli.resolveStudent(ctx, args[0])
	if err != nil {
		return err
	}
	set := visited(f.fs)

	update := models.StudentUpdate{
		RollNumber:         optional(set, "roll", *f.roll),
		UserID:             optional(set, "user", *f.userID),
		Name:               optional(set, "name", *f.name),
		ContactNumber:      optional(set, "contact", *f.contact),
		Email:              optional(set, "email", *f.email),
		Address:            optional(set, "address", *f.address),
		AadhaarNo:          optional(set, "aadhaar", *f.aadhaar),
		DateOfBirth:        optional(set, "dob", *f.dob),
		Gender:             optional(set, "gender", *f.gender),
		BloodGroup:         optional(set, "blood", *f.blood),
		MotherName:         optional(set, "mother", *f.mother),
		EnrollmentDate:     optional(set, "date", *f.date),
		ProfilePicturePath: optional(set, "picture", *f.picture),
	}
	if set["status"] {
		status := models.EnrollmentStatus(*f.status)
		update.EnrollmentStatus = &status
	}
	if update.TenthPercent, err = optionalFloat(set, "tenth", *f.tenth); err != nil {
		return err
	}
	if update.TwelfthPercent, err = optionalFloat(set, "twelfth", *f.twelfth); err != nil {
		return err
	}
	if set["course"] {
		if update.CourseID, err = cli.courseID(ctx, *f.course); err != nil {
			return err
		}
	}
	if set["year"] {
		if update.AcademicYearID, err = cli.yearID(ctx, *f.year); err != nil {
			return err
		}
	}

	if err := cli.svc.Students.Update(ctx, s.ID, update); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Student %s updated.\n", s.RollNumber)
	return nil
}

// changeStudents runs delete, restore or purge on every listed student.
func (cli *commandLine) changeStudents(ctx context.Context, action string, refs []string) error {
	if len(refs) == 0 {
		fmt.Fprintf(cli.out, "Usage: student %s ID|ROLL...\n", action)
		return errHelp
	}
	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		s, err := cli.resolveStudent(ctx, ref)
		if err != nil {
			return err
		}
		ids = append(ids, s.ID)
	}

	var (
		n    int64
		err  error
		verb string
	)
	switch action {
	case "delete":
		n, err = cli.svc.Students.SoftDelete(ctx, ids)
		verb = "moved to the bin"
	case "restore":
		n, err = cli.svc.Students.Restore(ctx, ids)
		verb = "restored"
	default:
		n, err = cli.svc.Students.PermanentDelete(ctx, ids)
		verb = "permanently deleted"
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%d student(s) %s.\n", n, verb)
	return nil
}

// resolveStudent finds a student by roll number, falling back to the
// numeric id.
func (cli *commandLine) resolveStudent(ctx context.Context, ref string) (*models.Student, error) {
	s, err := cli.svc.Students.GetByRollNumber(ctx, ref)
	if err == nil || !errors.Is(err, apperrors.ErrNotFound) {
		return s, err
	}
	if id, perr := strconv.ParseInt(strings.TrimSpace(ref), 10, 64); perr == nil && id > 0 {
		return cli.svc.Students.Get(ctx, id)
	}
	return nil, err
}

func (cli *commandLine) courseID(ctx context.Context, name string) (*int64, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	c, err := cli.svc.References.GetCourseByName(ctx, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewReferenceError("course_id", err)
		}
		return nil, err
	}
	return &c.ID, nil
}

func (cli *commandLine) yearID(ctx context.Context, name string) (*int64, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	y, err := cli.svc.References.GetAcademicYearByName(ctx, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewReferenceError("academic_year_id", err)
		}
		return nil, err
	}
	return &y.ID, nil
}

func (cli *commandLine) courseNames(ctx context.Context) (map[int64]string, error) {
	courses, err := cli.svc.References.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(courses))
	for _, c := range courses {
		names[c.ID] = c.Name
	}
	return names, nil
}

func (cli *commandLine) printStudents(ctx context.Context, students []*models.Student) error {
	if len(students) == 0 {
		fmt.Fprintln(cli.out, "No students found.")
		return nil
	}
	courses, err := cli.courseNames(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(students))
	for _, s := range students {
		course := ""
		if s.CourseID != nil {
			course = courses[*s.CourseID]
		}
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10), s.RollNumber, s.Name, course,
			helpers.Deref(s.Email), string(s.EnrollmentStatus),
		})
	}
	return cli.printTable([]string{"ID", "Roll No", "Name", "Course", "Email", "Status"}, rows)
}

func (cli *commandLine) printStudent(ctx context.Context, s *models.Student) error {
	courses, err := cli.courseNames(ctx)
	if err != nil {
		return err
	}
	course := ""
	if s.CourseID != nil {
		course = courses[*s.CourseID]
	}
	percent := func(p *float64) string {
		if p == nil {
			return ""
		}
		return strconv.FormatFloat(*p, 'f', -1, 64)
	}
	state := "active record"
	if s.Deleted {
		state = "in bin"
	}

	w := cli.table()
	for _, kv := range [][2]string{
		{"ID", strconv.FormatInt(s.ID, 10)},
		{"Roll No", s.RollNumber},
		{"Name", s.Name},
		{"Course", course},
		{"Email", helpers.Deref(s.Email)},
		{"Contact", helpers.Deref(s.ContactNumber)},
		{"Address", helpers.Deref(s.Address)},
		{"Date of Birth", helpers.Deref(s.DateOfBirth)},
		{"Gender", helpers.Deref(s.Gender)},
		{"Blood Group", helpers.Deref(s.BloodGroup)},
		{"10th %", percent(s.TenthPercent)},
		{"12th %", percent(s.TwelfthPercent)},
		{"Status", string(s.EnrollmentStatus)},
		{"Enrolled", s.EnrollmentDate},
		{"Record", state},
	} {
		fmt.Fprintf(w, "%s:\t%s\n", kv[0], kv[1])
	}
	return w.Flush()
}
