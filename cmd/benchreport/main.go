// cmd/benchreport/main.go
// Sums "name,duration" records per name and prints each name's share of "total".
//
//	benchreport [-skip-malformed] [-archive] [-label LABEL] [FILE ...]
//
// With no FILE, or when FILE is -, standard input is read. Files ending in
// .gz are decompressed. The first malformed line aborts the run unless
// -skip-malformed is given.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "k8s.io/klog/v2"

	"benchreport/internal/bench"
	"benchreport/internal/config"
	mysqlrepo "benchreport/internal/repositories/mysql"
	"benchreport/internal/util"
	"benchreport/pkg/db"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	log.Flush()
	os.Exit(code)
}

// run returns the process exit status: 0 ok, 1 input or archive failure, 2 usage.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("benchreport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	log.InitFlags(fs)
	skipMalformed := fs.Bool("skip-malformed", false, "warn about and skip malformed lines instead of aborting")
	archive := fs.Bool("archive", false, "store the report in the MySQL run archive (DB_DSN or MYSQL_*)")
	label := fs.String("label", "", "label attached to an archived run")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: benchreport [flags] [FILE ...]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	c := bench.NewCollector(*skipMalformed)
	if err := c.CollectAll(bench.Sources(fs.Args(), stdin)); err != nil {
		fmt.Fprintln(stderr, "benchreport:", err)
		return 1
	}
	if n := len(c.Skipped()); n > 0 {
		log.Warningf("skipped %d malformed line(s)", n)
	}

	rep := bench.NewReport(c.Aggregate())
	if !rep.HasTotal && len(rep.Rows) > 0 {
		log.Warningf("no %q record; percentages reported as 0", bench.TotalKey)
	}
	if _, err := rep.WriteTo(stdout); err != nil {
		fmt.Fprintln(stderr, "benchreport: write report:", err)
		return 1
	}

	if *archive {
		id, err := archiveRun(ctx, config.Load(), *label, c.Aggregate())
		if err != nil {
			fmt.Fprintln(stderr, "benchreport: archive:", err)
			return 1
		}
		log.Infof("archived run %s", id)
	}
	return 0
}

func archiveRun(ctx context.Context, cfg *config.Config, label string, agg *bench.Aggregate) (string, error) {
	conn, err := db.Open(ctx, db.Options{
		DSN:         cfg.DSN(),
		MaxOpen:     cfg.MySQL.MaxOpen,
		MaxIdle:     cfg.MySQL.MaxIdle,
		PingRetries: cfg.MySQL.PingRetries,
	})
	if err != nil {
		return "", err
	}
	defer conn.Close()

	repo := &mysqlrepo.RunRepo{DB: conn}
	if err := repo.EnsureSchema(ctx); err != nil {
		return "", err
	}
	run := mysqlrepo.NewRun(util.NewID(), label, util.RealClock{}.Now(), agg)
	if err := repo.Save(ctx, run); err != nil {
		return "", err
	}
	return run.ID, nil
}
