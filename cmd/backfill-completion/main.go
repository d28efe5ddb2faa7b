// Command backfill-completion recomputes profile_completed for every
// candidate and persists the rows whose stored flag disagrees with the score.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"board-champions-backend/config"
	"board-champions-backend/internal/domain"
	"board-champions-backend/internal/profile"
	"board-champions-backend/internal/repository/postgres"
	"board-champions-backend/pkg/audit"
	"board-champions-backend/pkg/database"
	"board-champions-backend/pkg/logger"
	"board-champions-backend/pkg/metrics"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

type change struct {
	id         string
	percentage int
	from, to   bool
}

func main() {
	dryRun := flag.Bool("dry-run", false, "report changes without writing them")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall deadline")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, database.PoolConfig{MaxConns: 2, MinConns: 1})
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := postgres.NewCandidateRepository(pool)
	profiles, err := repo.ListAll(ctx)
	if err != nil {
		logger.Log.Error("Failed to list candidates", "error", err)
		os.Exit(1)
	}

	changes := diff(profiles)
	if !*dryRun {
		for _, ch := range changes {
			if err := repo.SetProfileCompleted(ctx, ch.id, ch.to); err != nil {
				logger.Log.Error("Failed to update candidate", "id", ch.id, "error", err)
				os.Exit(1)
			}
		}
		m := metrics.NewManager()
		m.RecordBackfill(len(changes))
		if err := m.Push(ctx, cfg.PushgatewayURL, "backfill_completion"); err != nil {
			logger.Log.Warn("Failed to push metrics", "gateway", cfg.PushgatewayURL, "error", err)
		}

		auditLog := audit.New("board-champions-backfill", cfg.GinMode)
		auditLog.Log(ctx, audit.Event{
			Event:   audit.EventCompletionBackfilled,
			ActorID: "system",
			Details: map[string]interface{}{"scanned": len(profiles), "updated": len(changes)},
		})
		_ = auditLog.Sync()
	}

	report(os.Stdout, len(profiles), changes, *dryRun)
}

// diff returns the profiles whose stored completion flag is stale.
func diff(profiles []domain.CandidateProfile) []change {
	var out []change
	for i := range profiles {
		p := &profiles[i]
		result := profile.ScoreProfile(p)
		if result.IsCompleted != p.ProfileCompleted {
			out = append(out, change{
				id:         p.ID,
				percentage: result.OverallPercentage,
				from:       p.ProfileCompleted,
				to:         result.IsCompleted,
			})
		}
	}
	return out
}

func report(w io.Writer, scanned int, changes []change, dryRun bool) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	flagText := func(b bool) string {
		if b {
			return green("completed")
		}
		return red("incomplete")
	}

	if len(changes) > 0 {
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Candidate", "Score", "Stored", "Computed"})
		for _, ch := range changes {
			table.Append([]string{ch.id, strconv.Itoa(ch.percentage) + "%", flagText(ch.from), flagText(ch.to)})
		}
		table.Render()
	}

	verb := "updated"
	if dryRun {
		verb = "would update"
	}
	fmt.Fprintf(w, "%s %d candidates scanned, %s %d\n", bold("backfill:"), scanned, verb, len(changes))
}
