// Command seeder inserts demo headache survey records for one phone number.
// It is intended for local development and manual testing of the stats
// endpoints, not for production databases.
//
// Flags:
//
//	--phone      identity to attach the records to (required)
//	--months     number of calendar months to cover, ending with the current one (default 3)
//	--per-month  records per month (default 5)
//	--seed       random seed, for reproducible data (default 1)
//	--dry-run    log the records without writing to DB
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/heartmarshall/painstats-backend/internal/adapter/postgres"
	"github.com/heartmarshall/painstats-backend/internal/adapter/postgres/survey"
	"github.com/heartmarshall/painstats-backend/internal/app"
	"github.com/heartmarshall/painstats-backend/internal/config"
	"github.com/heartmarshall/painstats-backend/internal/domain"
)

var (
	areas   = []string{"лоб", "виски", "затылок", "темя", "вокруг глаз"}
	details = []string{"слева", "справа", "с обеих сторон"}
	kinds   = []string{"давящая", "пульсирующая", "ноющая", "острая"}
	notes   = []string{"после работы", "плохо спал", "смена погоды", "после тренировки"}
)

func main() {
	phone := flag.String("phone", "", "identity to attach the records to")
	months := flag.Int("months", 3, "number of months to cover")
	perMonth := flag.Int("per-month", 5, "records per month")
	seed := flag.Uint64("seed", 1, "random seed")
	dryRun := flag.Bool("dry-run", false, "log the records without writing to DB")
	flag.Parse()

	if *phone == "" || *months < 1 || *perMonth < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	records := generate(rand.New(rand.NewPCG(*seed, *seed)), *phone, *months, *perMonth, time.Now().UTC())

	if *dryRun {
		for _, rec := range records {
			logger.Info("record",
				slog.Time("created_at", rec.CreatedAt),
				slog.Bool("headache_today", rec.HeadacheToday),
			)
		}
		logger.Info("dry run completed", slog.Int("records", len(records)))
		return
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	repo := survey.New(pool)
	for _, rec := range records {
		if _, err := repo.Insert(ctx, rec); err != nil {
			logger.Error("insert survey record",
				slog.String("error", err.Error()),
				slog.Time("created_at", rec.CreatedAt),
			)
			os.Exit(1)
		}
	}

	logger.Info("seeding completed",
		slog.String("phone", *phone),
		slog.Int("records", len(records)),
	)
}

// generate spreads perMonth records over each of the last months calendar
// months up to now. Days past the end of a short month roll back into it.
func generate(rng *rand.Rand, phone string, months, perMonth int, now time.Time) []domain.SurveyRecord {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var out []domain.SurveyRecord
	for m := months - 1; m >= 0; m-- {
		start := first.AddDate(0, -m, 0)
		days := start.AddDate(0, 1, 0).Sub(start).Hours() / 24

		for range perMonth {
			created := start.Add(time.Duration(rng.Float64() * days * float64(24*time.Hour))).Truncate(time.Second)
			if created.After(now) {
				created = now.Truncate(time.Second)
			}

			rec := domain.SurveyRecord{
				UserID:          phone,
				CreatedAt:       created,
				UpdatedAt:       created.Add(time.Duration(rng.IntN(120)) * time.Minute),
				HeadacheToday:   rng.IntN(3) > 0,
				MedicamentToday: rng.IntN(2) == 0,
			}
			if rec.HeadacheToday {
				intensity := 1 + rng.IntN(10)
				rec.PainIntensity = &intensity
				rec.PainArea = pick(rng, areas)
				rec.AreaDetail = pick(rng, details)
				rec.PainType = pick(rng, kinds)
			}
			if rng.IntN(4) == 0 {
				rec.Comments = pick(rng, notes)
			}
			out = append(out, rec)
		}
	}
	return out
}

func pick(rng *rand.Rand, from []string) *string {
	s := from[rng.IntN(len(from))]
	return &s
}
