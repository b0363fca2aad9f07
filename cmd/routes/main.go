// Command routes prints the navigation tree the messenger would load.
package main

import (
	"fmt"
	"os"

	"messenger/navigation"

	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	RoutesFile string `envconfig:"ROUTES_FILE"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"INFO"`
	// ROUTES_COLOURS highlights dynamic segments
	Colours bool `envconfig:"ROUTES_COLOURS" default:"true"`
}

func main() {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)

	tree, source, err := load(cfg.RoutesFile)
	if err != nil {
		log.Error("Unable to load routes", "file", cfg.RoutesFile, "error", err)
		os.Exit(1)
	}
	log.Info("Routes loaded", "source", source, "count", len(tree.Routes()))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Pattern", "Param"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, route := range tree.Routes() {
		pattern := route.Pattern()
		param, dynamic := route.Param()
		if dynamic && cfg.Colours {
			pattern = color.New(color.FgGreen, color.OpBold).Render(pattern)
		}
		table.Append([]string{
			route.FullName(),
			pattern,
			param,
		})
	}
	table.Render()
}

func load(path string) (*navigation.Tree, string, error) {
	if path == "" {
		return navigation.DefaultRoutes(), "default", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, path, err
	}
	defer func() { _ = f.Close() }()
	tree, err := navigation.LoadRoutes(f)
	return tree, path, err
}
