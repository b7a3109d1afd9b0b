// Package progress prints search reports for people watching a run.
package progress

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"

	"github.com/sgaliamov/ergo-balance/genetic"
)

// Printer writes every report it receives to a writer: a header line and the
// numbered top results.
type Printer[I fmt.Stringer] struct {
	out io.Writer
}

var _ genetic.Reporter[fmt.Stringer] = (*Printer[fmt.Stringer])(nil)

func NewPrinter[I fmt.Stringer](out io.Writer) *Printer[I] {
	return &Printer[I]{out: out}
}

func (p *Printer[I]) Report(ctx context.Context, report genetic.Report[I]) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "****** Generation %s of %s ******\n",
		humanize.Comma(int64(report.Generation)), humanize.Comma(int64(report.Generations)))
	fmt.Fprintf(&buf, " Repeats: %d, elapsed: %s\n", report.Repeats, report.Elapsed.Round(time.Millisecond))
	for i, individual := range report.Top {
		fmt.Fprintf(&buf, "%3d. %s\n", i+1, individual)
	}
	if report.Final {
		outcome := "generation budget spent"
		if report.Converged {
			outcome = "converged"
		}
		fmt.Fprintf(&buf, "Search finished after %s generations, %s.\n", humanize.Comma(int64(report.Generation)), outcome)
	}
	buf.WriteByte('\n')

	if _, err := p.out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to print report: %w", err)
	}

	klog.FromContext(ctx).Info("Search progress",
		"generation", report.Generation,
		"repeats", report.Repeats,
		"best", report.Stats.Best,
		"mean", report.Stats.Mean,
		"elapsed", report.Elapsed,
		"final", report.Final)
	return nil
}
