package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// ErrPasswordMismatch is returned when the confirmation differs.
var ErrPasswordMismatch = errors.New("passwords do not match")

// Directory is the subset of services.IdentityService the commands use.
type Directory interface {
	Register(ctx context.Context, f models.UserFields) (*models.PublicUser, error)
	ListPublicProfiles(ctx context.Context) ([]*models.PublicUser, error)
}

// RegisterUser prompts for the account fields and creates the user.
func RegisterUser(ctx context.Context, d Directory, reader *bufio.Reader, w io.Writer) (*models.PublicUser, error) {
	var f models.UserFields
	var err error

	prompts := []struct {
		label string
		dst   *string
	}{
		{"Email", &f.Email},
		{"Username (optional)", &f.Username},
		{"First name (optional)", &f.FirstName},
		{"Last name (optional)", &f.LastName},
	}
	for _, p := range prompts {
		if *p.dst, err = GetSimpleText(reader, p.label, w); err != nil {
			return nil, err
		}
	}

	if f.Password, err = GetPassword("Password", w); err != nil {
		return nil, err
	}
	confirm, err := GetPassword("Repeat password", w)
	if err != nil {
		return nil, err
	}
	if confirm != f.Password {
		return nil, ErrPasswordMismatch
	}

	u, err := d.Register(ctx, f)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(w, "Created user %s (%s)\n", u.ID, u.Email)
	return u, nil
}

// ListUsers prints every user as a table.
func ListUsers(ctx context.Context, d Directory, w io.Writer) error {
	list, err := d.ListPublicProfiles(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tUSERNAME\tCREATED")
	for _, u := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Username, u.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
