package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/branchsync/internal/credentials"
)

// Configure edits one backend's credentials. Secrets are read without
// echo. An empty value keeps the stored one.
func (a *App) Configure(ctx context.Context) {
	backend, err := GetSimpleText(a.reader, "backend: filestore or rowstore", a.out)
	if err != nil {
		return
	}
	if backend != credentials.BackendFile && backend != credentials.BackendRow {
		fmt.Println("unknown backend")
		return
	}

	fields := a.creds.RequiredFields(backend)
	if backend == credentials.BackendFile {
		fields = append(fields, credentials.FieldRegion)
	}

	for _, field := range fields {
		value, err := GetSecret(field, a.out)
		if err != nil {
			return
		}
		if value == "" {
			continue
		}
		if err := a.creds.Set(ctx, backend, field, value); err != nil {
			fmt.Println(err)
			return
		}
	}

	ok, err := a.creds.IsConfigured(ctx, backend)
	if err != nil {
		fmt.Println(err)
		return
	}
	if ok {
		fmt.Printf("%s is configured\n", backend)
	} else {
		fmt.Printf("%s is still missing required fields; sync will skip it\n", backend)
	}
}

// TestConnection verifies the relational backend and reports whether the
// table exists and the credentials work.
func (a *App) TestConnection(ctx context.Context) {
	res := a.row.TestConnection(ctx)
	fmt.Println(res.Message)
}
