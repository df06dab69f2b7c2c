// internal/bench/collector.go
// Reads sources line by line into an Aggregate

package bench

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	log "k8s.io/klog/v2"
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// Collector feeds every line of its inputs into one Aggregate.
//
// With SkipMalformed unset the first malformed line stops collection and
// is returned as a *ParseError. With SkipMalformed set the line is logged,
// remembered in Skipped and collection continues.
type Collector struct {
	SkipMalformed bool

	agg     *Aggregate
	lines   int
	skipped []*ParseError
}

func NewCollector(skipMalformed bool) *Collector {
	return &Collector{SkipMalformed: skipMalformed, agg: NewAggregate()}
}

func (c *Collector) Aggregate() *Aggregate { return c.agg }

// Lines is the number of records added so far.
func (c *Collector) Lines() int { return c.lines }

func (c *Collector) Skipped() []*ParseError { return c.skipped }

// CollectAll reads the sources in order, opening each one only when the
// previous one has been consumed and closed.
func (c *Collector) CollectAll(sources []Source) error {
	for _, src := range sources {
		if err := c.CollectSource(src); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) CollectSource(src Source) error {
	rc, err := src.Open()
	if err != nil {
		return err
	}
	err = c.Collect(src.Name, rc)
	if cerr := rc.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", src.Name, cerr)
	}
	return err
}

// Collect consumes r to end-of-stream. name is used in error messages.
func (c *Collector) Collect(name string, r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		rec, err := ParseLine(sc.Text())
		if err != nil {
			var perr *ParseError
			if !errors.As(err, &perr) {
				return err
			}
			perr.Source, perr.Line = name, lineNo
			if !c.SkipMalformed {
				return perr
			}
			log.Warningf("skipping %v", perr)
			c.skipped = append(c.skipped, perr)
			continue
		}
		rec.Source, rec.Line = name, lineNo
		c.agg.AddRecord(rec)
		c.lines++
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}
