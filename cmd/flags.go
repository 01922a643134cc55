package cmd

import (
	"github.com/spf13/pflag"
)

// globalOptions are the flags every command accepts.
type globalOptions struct {
	config      string
	logLevel    string
	logFormat   string
	targetName  string
	sectionPath string
}

var globals globalOptions

func globalFlagSet(o *globalOptions) *pflag.FlagSet {
	fs := pflag.NewFlagSet("global", pflag.ContinueOnError)
	fs.StringVar(&o.config, "config", defaultConfig, "settings file")
	fs.StringVar(&o.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	fs.StringVar(&o.logFormat, "log-format", "text", "log format: text or json")
	fs.StringVar(&o.targetName, "target-name", "", "subtarget to filter headings for (overrides runtime.target_name)")
	fs.StringVar(&o.sectionPath, "section-path", "", "directory holding section files (overrides general.section_path)")
	return fs
}

// exportOptions configure a single export.
type exportOptions struct {
	input  string
	target string
	output string
	args   []string
}

func exportFlagSet(o *exportOptions) *pflag.FlagSet {
	fs := pflag.NewFlagSet("export", pflag.ContinueOnError)
	fs.StringVarP(&o.target, "target", "t", "html", "export target")
	fs.StringVarP(&o.output, "output", "o", "", "output file (default stdout)")
	return fs
}
