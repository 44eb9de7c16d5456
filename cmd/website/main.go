// Command website runs the Westmark Advisory marketing site: the public
// pages, the contact API, and the operator surface.
package main

import (
	"context"
	"os"

	"github.com/westmarkadvisory/website/internal/app"
	"github.com/westmarkadvisory/website/internal/app/bootstrap"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks()); err != nil {
		os.Exit(1)
	}
}
