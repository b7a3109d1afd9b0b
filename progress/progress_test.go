package progress

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaliamov/ergo-balance/genetic"
)

type line string

func (l line) String() string { return string(l) }

func TestPrinter(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter[line](&out)

	err := p.Report(context.Background(), genetic.Report[line]{
		Generation:  1234,
		Generations: 10000,
		Repeats:     3,
		Top:         []line{"best", "second"},
		Elapsed:     1500 * time.Millisecond,
	})
	require.NoError(t, err)

	assert.Equal(t, "****** Generation 1,234 of 10,000 ******\n"+
		" Repeats: 3, elapsed: 1.5s\n"+
		"  1. best\n"+
		"  2. second\n\n", out.String())
}

func TestPrinterFinal(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter[line](&out)

	require.NoError(t, p.Report(context.Background(), genetic.Report[line]{
		Generation: 12, Generations: 100, Final: true, Converged: true,
	}))
	assert.Contains(t, out.String(), "Search finished after 12 generations, converged.")

	out.Reset()
	require.NoError(t, p.Report(context.Background(), genetic.Report[line]{
		Generation: 100, Generations: 100, Final: true,
	}))
	assert.Contains(t, out.String(), "generation budget spent")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPrinterWriteError(t *testing.T) {
	p := NewPrinter[line](failingWriter{})
	err := p.Report(context.Background(), genetic.Report[line]{Generation: 1})
	assert.ErrorContains(t, err, "disk full")
}
