package main

import (
	"context"
	"fmt"

	"github.com/yigit/studentrecords/internal/app/models"
)

func (cli *commandLine) runUser(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(cli.out, "Usage: user register|login|passwd")
		return errHelp
	}

	fs := cli.newFlagSet("user " + args[0])
	userID := fs.String("id", "", "The user id. The password will be prompted next.")

	switch args[0] {
	case "register":
		name := fs.String("name", "", "Display name")
		role := fs.String("role", string(models.RoleStudent), "admin or student")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if *userID == "" {
			return cli.usage(fs, "user register -id USER_ID -name NAME [-role ROLE]")
		}
		pwd, err := cli.promptPassword("Enter password:")
		if err != nil {
			return err
		}
		if pwd == "" {
			return cli.usage(fs, "user register -id USER_ID -name NAME [-role ROLE]")
		}
		user, err := cli.svc.Users.Register(ctx, *userID, pwd, *name, models.Role(*role))
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "User %s registered.\n", user.UserID)
		return nil
	case "login":
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if *userID == "" {
			return cli.usage(fs, "user login -id USER_ID")
		}
		pwd, err := cli.promptPassword("Enter password:")
		if err != nil {
			return err
		}
		user, err := cli.svc.Users.Authenticate(ctx, *userID, pwd)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Welcome, %s (%s).\n", user.DisplayName, user.Role)
		return nil
	case "passwd":
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if *userID == "" {
			return cli.usage(fs, "user passwd -id USER_ID")
		}
		oldPwd, err := cli.promptPassword("Current password:")
		if err != nil {
			return err
		}
		newPwd, err := cli.promptPassword("New password:")
		if err != nil {
			return err
		}
		if err := cli.svc.Users.ChangePassword(ctx, *userID, oldPwd, newPwd); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "Password changed.")
		return nil
	default:
		fmt.Fprintln(cli.out, "Usage: user register|login|passwd")
		return errHelp
	}
}
