package info

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/config"
	"tableflip.dev/journal/pkg/remote"
)

// Info reports where the journal lives and whether it is in sync.
type Info struct {
	Config  *config.Config
	Service *app.Service
	// Remote is nil when no remote.url is configured.
	Remote *remote.Client
	JSON   bool
	Out    io.Writer
}

// Report is the JSON form of Info.
type Report struct {
	ConfigFile string `json:"configFile,omitempty"`
	Path       string `json:"path"`
	Backend    string `json:"backend"`
	Entries    int    `json:"entries"`
	Questions  int    `json:"questions"`
	Dirty      bool   `json:"dirty"`
	RemoteURL  string `json:"remoteUrl,omitempty"`
	Remote     string `json:"remote,omitempty"`
}

func (n *Info) report(ctx context.Context) Report {
	r := Report{}
	if n.Config != nil {
		r.ConfigFile = n.Config.File
		r.Path = n.Config.Path
		r.Backend = n.Config.Store
		r.RemoteURL = n.Config.Remote.URL
	}
	if n.Service != nil {
		j := n.Service.Journal()
		r.Entries = len(j.Entries())
		r.Questions = len(j.Questions())
		r.Dirty = n.Service.Dirty(ctx)
	}
	if n.Remote != nil {
		status, err := n.Remote.Status(ctx)
		switch {
		case err != nil:
			r.Remote = "offline: " + err.Error()
		case status.Online():
			r.Remote = fmt.Sprintf("online (%s %s)", status.Type, status.Version)
		default:
			r.Remote = status.Status
		}
	}
	return r
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}
	r := n.report(ctx)
	if n.JSON {
		return json.NewEncoder(out).Encode(r)
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "

	if override := os.Getenv("JOURNAL_CONFIG_PATH"); override != "" {
		tbl.AddRow(bold.Sprint("JOURNAL_CONFIG_PATH"), override)
	}
	configFile := r.ConfigFile
	if configFile == "" {
		configFile = "none, using defaults"
	}
	tbl.AddRow(bold.Sprint("Config"), configFile)
	tbl.AddRow(bold.Sprint("Path"), r.Path)
	tbl.AddRow(bold.Sprint("Backend"), r.Backend)
	tbl.AddRow(bold.Sprint("Entries"), r.Entries)
	tbl.AddRow(bold.Sprint("Questions"), r.Questions)
	if r.RemoteURL == "" {
		tbl.AddRow(bold.Sprint("Remote"), "not configured")
	} else {
		tbl.AddRow(bold.Sprint("Remote"), r.RemoteURL)
		tbl.AddRow(bold.Sprint("Status"), r.Remote)
		pending := "in sync"
		if r.Dirty {
			pending = "local changes not pushed"
		}
		tbl.AddRow(bold.Sprint("Sync"), pending)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(out, "")
	_, _ = fmt.Fprintln(out, tbl)
	return nil
}
