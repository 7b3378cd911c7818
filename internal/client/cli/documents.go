package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/hkjobs/internal/client/models"
)

func (a *App) Docs(ctx context.Context, _ []string) error {
	docs, err := a.document.List(ctx)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		a.println("No documents uploaded.")
	}
	for _, d := range docs {
		a.println(d.String())
	}
	return nil
}

// Upload sends a local file. The kind defaults to resume.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage{"upload", "<path> [resume|cover_letter|other]"}
	}
	var kind models.DocumentKind
	if len(args) == 2 {
		kind = models.DocumentKind(strings.ToLower(args[1]))
	}

	doc, err := a.document.Upload(ctx, args[0], kind)
	if err != nil {
		return err
	}
	a.printf("Uploaded %s.\n", doc)
	return nil
}

func (a *App) RemoveDocument(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage{"rmdoc", "<document id>"}
	}
	if err := a.document.Delete(ctx, args[0]); err != nil {
		return err
	}
	a.println("Document deleted.")
	return nil
}
