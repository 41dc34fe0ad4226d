package main

import (
	"context"

	"go.llib.dev/frameless/pkg/cli"

	"go.llib.dev/resumable/internal/partitioncmd"
)

func main() {
	cli.Main(context.Background(), partitioncmd.Command{})
}
