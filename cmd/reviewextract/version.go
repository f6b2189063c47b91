package main

import (
	"context"
	"fmt"

	"github.com/a-h/reviewextract"
)

type VersionCommand struct {
}

func (c VersionCommand) Run(ctx context.Context) (err error) {
	fmt.Println(reviewextract.Version)
	return nil
}
