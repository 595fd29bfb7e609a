// Command segsearch runs one search against the combined search service and
// prints the results the way the web UI shows them.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/kailas-cloud/segscope/internal/domain/search/request"
	"github.com/kailas-cloud/segscope/internal/usecase/presenter"
	"github.com/kailas-cloud/segscope/internal/version"
	segscope "github.com/kailas-cloud/segscope/pkg/sdk"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	action    string
	atLeast   int
	threshold float64
	atMost    int
	backend   string
	expand    bool
	noColor   bool
	timeout   time.Duration
	preview   int
	showVer   bool
}

func parseFlags(args []string, stderr io.Writer) (options, []string, error) {
	var o options
	fs := pflag.NewFlagSet("segsearch", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: segsearch [flags] <query>")
		fs.PrintDefaults()
	}

	backend := os.Getenv("SEGSCOPE_BACKEND_URL")
	if backend == "" {
		backend = segscope.DefaultBaseURL
	}

	fs.StringVar(&o.action, "action", string(segscope.ActionSearch), "search or rag")
	fs.IntVarP(&o.atLeast, "k", "k", request.DefaultAtLeast, "minimum number of segments")
	fs.Float64VarP(&o.threshold, "threshold", "t", request.DefaultThreshold, "similarity threshold in [0,1]")
	fs.IntVarP(&o.atMost, "max", "m", request.DefaultAtMost, "maximum number of segments")
	fs.StringVar(&o.backend, "backend", backend, "base URL of the search service")
	fs.BoolVarP(&o.expand, "expand", "e", false, "print full segment text")
	fs.BoolVar(&o.noColor, "no-color", false, "disable colored output")
	fs.DurationVar(&o.timeout, "timeout", 0, "give up after this long (0 waits for the reply)")
	fs.IntVar(&o.preview, "preview", 200, "characters of text shown for collapsed results")
	fs.BoolVar(&o.showVer, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return o, nil, err //nolint:wrapcheck // pflag already printed usage
	}
	return o, fs.Args(), nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, rest, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	p := newPrinter(stdout, o.noColor)
	ep := newPrinter(stderr, o.noColor)

	if o.showVer {
		p.plain("%s\n", version.String("segsearch"))
		return 0
	}

	params, err := segscope.NewParams(segscope.Action(o.action), strings.Join(rest, " "),
		o.atLeast, o.threshold, o.atMost)
	if err != nil {
		ep.fail("%v\n", err)
		return 2
	}
	if params.Inverted() {
		ep.warn("warning: --k %d exceeds --max %d\n", params.AtLeast(), params.AtMost())
	}

	client, err := segscope.New(segscope.WithBaseURL(o.backend))
	if err != nil {
		ep.fail("%v\n", err)
		return 2
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	resp, err := client.Do(ctx, params)
	if err != nil {
		ep.fail("%v\n", err)
		return 1
	}

	state := presenter.New(presenter.Config{PreviewRunes: o.preview})
	state.SetResponse(resp)
	if o.expand {
		state.ExpandAll()
	}
	p.view(state.View())
	return 0
}
