package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/chronitrack/internal/chart"
	"github.com/chronitrack/internal/healthlog"
	"github.com/google/uuid"
)

// 测试数据生成器：生成若干天的模拟记录，输出导出 CSV 与折线图。
func main() {
	days := flag.Int("days", 14, "number of days to generate")
	outDir := flag.String("out", ".", "output directory")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	fmt.Println("开始生成测试数据...")

	end := time.Now().UTC().Truncate(24 * time.Hour)
	store, err := buildStore(generateEntries(*days, end, *seed))
	if err != nil {
		log.Fatal("生成记录失败:", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal("创建输出目录失败:", err)
	}

	entries := store.Entries()
	csvPath, err := writeExport(*outDir, entries, end)
	if err != nil {
		log.Fatal("导出 CSV 失败:", err)
	}

	pngPath := filepath.Join(*outDir, "daily.png")
	if err := writeChart(pngPath, healthlog.DailyAggregates(entries, time.UTC)); err != nil {
		log.Fatal("绘制图表失败:", err)
	}

	fmt.Println("测试数据生成完成！")
	fmt.Printf("记录: %d 条\n", store.Len())
	fmt.Printf("CSV: %s\n", csvPath)
	fmt.Printf("图表: %s\n", pngPath)
}

// generateEntries 为每一天生成症状、治疗与生活方式记录，偶尔留出空缺以模拟漏记。
func generateEntries(days int, end time.Time, seed uint64) []healthlog.Entry {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	symptoms := []string{"Headache", "Fatigue", "Joint pain", "Nausea"}
	meals := []string{"Oatmeal", "Salad with chicken", "Pasta", "Rice and beans"}
	workouts := []string{"Walk", "Yoga", "Cycling"}

	var entries []healthlog.Entry
	for d := days - 1; d >= 0; d-- {
		day := end.AddDate(0, 0, -d)

		if rng.IntN(5) > 0 {
			entries = append(entries, healthlog.Symptom{
				ID:        uuid.NewString(),
				Timestamp: day.Add(time.Duration(7+rng.IntN(4)) * time.Hour),
				Name:      symptoms[rng.IntN(len(symptoms))],
				Severity:  1 + rng.IntN(10),
			})
		}
		if rng.IntN(3) == 0 {
			entries = append(entries, healthlog.Treatment{
				ID:        uuid.NewString(),
				Timestamp: day.Add(12 * time.Hour),
				Name:      "Ibuprofen",
				Dosage:    "200mg",
			})
		}
		entries = append(entries, healthlog.Lifestyle{
			ID:        uuid.NewString(),
			Timestamp: day.Add(13 * time.Hour),
			Subtype:   healthlog.SubtypeDiet,
			Item:      healthlog.Ptr(meals[rng.IntN(len(meals))]),
		})
		if rng.IntN(2) == 0 {
			entries = append(entries, healthlog.Lifestyle{
				ID:               uuid.NewString(),
				Timestamp:        day.Add(18 * time.Hour),
				Subtype:          healthlog.SubtypeExercise,
				ExerciseType:     healthlog.Ptr(workouts[rng.IntN(len(workouts))]),
				ExerciseDuration: healthlog.Ptr(15 + 5*rng.IntN(10)),
			})
		}
		if rng.IntN(4) > 0 {
			entries = append(entries, healthlog.Lifestyle{
				ID:        uuid.NewString(),
				Timestamp: day.Add(22 * time.Hour),
				Subtype:   healthlog.SubtypeSleep,
				Quality:   healthlog.Ptr(1 + rng.IntN(10)),
				Duration:  healthlog.Ptr(5 + float64(rng.IntN(8))/2),
			})
		}
	}
	return entries
}

func buildStore(entries []healthlog.Entry) (*healthlog.Store, error) {
	store := healthlog.NewStore()
	for _, e := range entries {
		if err := store.Insert(e); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func writeExport(dir string, entries []healthlog.Entry, now time.Time) (string, error) {
	body, err := healthlog.ExportCSV(entries)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, healthlog.ExportFileName("sample", now))
	return path, os.WriteFile(path, []byte(body), 0o644)
}

func writeChart(path string, rows []healthlog.DailyAggregate) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return chart.RenderDaily(f, rows, chart.Options{})
}
