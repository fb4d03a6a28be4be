package main

import (
	"fmt"
	"os"

	"github.com/mattsolo1/kettle/cmd"
	"github.com/mattsolo1/kettle/pkg/service"
)

var svc *service.Service

func main() {
	rootCmd := cmd.NewRootCmd(&svc)

	if err := cmd.Execute(rootCmd, &svc); err != nil {
		if !cmd.IsReported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
