package main

import (
	"context"
	"os"

	"github.com/linyu92/sd-webui-segment-anything/cmd"
)

func main() {
	if err := cmd.NewCLI().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
