package healthlog

import (
	"cmp"
	"slices"
	"time"
)

// DateFormat 是按天分组时使用的日期键格式。
const DateFormat = "2006-01-02"

// DailyAggregate 汇总单日的症状严重度均值与睡眠质量，nil 表示当天无数据。
type DailyAggregate struct {
	Date            string
	SymptomSeverity *float64
	SleepQuality    *int
}

type dayBucket struct {
	severities []int
	sleep      *int
}

// DailyAggregates 按 loc 下的自然日分组，返回按日期升序排列的汇总。
// 严重度取算术平均；同一天多条睡眠记录时以遍历顺序中最后一条带质量值的为准。
// loc 为 nil 时使用 UTC。
func DailyAggregates(entries []Entry, loc *time.Location) []DailyAggregate {
	if loc == nil {
		loc = time.UTC
	}

	buckets := make(map[string]*dayBucket)
	for _, e := range entries {
		if e == nil {
			continue
		}
		key := e.EntryTime().In(loc).Format(DateFormat)
		bucket, ok := buckets[key]
		if !ok {
			bucket = &dayBucket{}
			buckets[key] = bucket
		}

		switch v := e.(type) {
		case Symptom:
			if validScore(v.Severity) {
				bucket.severities = append(bucket.severities, v.Severity)
			}
		case Lifestyle:
			if v.Subtype == SubtypeSleep && v.Quality != nil && validScore(*v.Quality) {
				quality := *v.Quality
				bucket.sleep = &quality
			}
		case Treatment:
			// 治疗记录只占位日期，不参与数值汇总
		}
	}

	result := make([]DailyAggregate, 0, len(buckets))
	for date, bucket := range buckets {
		row := DailyAggregate{Date: date, SleepQuality: bucket.sleep}
		if len(bucket.severities) > 0 {
			sum := 0
			for _, v := range bucket.severities {
				sum += v
			}
			avg := float64(sum) / float64(len(bucket.severities))
			row.SymptomSeverity = &avg
		}
		result = append(result, row)
	}

	slices.SortFunc(result, func(a, b DailyAggregate) int {
		return cmp.Compare(a.Date, b.Date)
	})

	return result
}

// ChartLabel 返回图表横轴使用的短日期，例如 "Jul 15"。
func (d DailyAggregate) ChartLabel() string {
	t, err := time.Parse(DateFormat, d.Date)
	if err != nil {
		return d.Date
	}
	return t.Format("Jan 2")
}
