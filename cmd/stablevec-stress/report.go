package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"
)

type Report struct {
	// Configuration
	Duration     time.Duration
	Workers      int
	Elements     int
	RemoveRatio  float64
	CompactEvery int
	Seed         uint64

	// Results
	Counters          Counters
	TotalTime         time.Duration
	CompactTime       Stats
	FinalLen          int
	FinalCapacityUsed int
	GCPauseMetrics    bool
	MemStatsStart     runtime.MemStats
	MemStatsEnd       runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// OpsPerSecond returns the overall vector operation throughput.
func (r *Report) OpsPerSecond() float64 {
	if r.TotalTime <= 0 {
		return 0
	}
	return float64(r.Counters.Total()) / r.TotalTime.Seconds()
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Stable Vector Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Workers:** {{.Workers}}
- **Initial Elements per Worker:** {{.Elements}}
- **Remove Ratio:** {{.RemoveRatio}}
- **Compact Every:** {{.CompactEvery}} ops
- **Seed:** {{.Seed}}

## Operations
- **Total:** {{.Counters.Total}} ({{printf "%.0f" .OpsPerSecond}} ops/s over {{.TotalTime}})
- **Pushes:** {{.Counters.Pushes}}
- **Removes:** {{.Counters.Removes}} (misses: {{.Counters.RemoveMisses}})
- **Hole Inserts:** {{.Counters.Inserts}} (conflicts: {{.Counters.Conflicts}})
- **Compactions:** {{.Counters.Compactions}} (elements moved: {{.Counters.Moved}})
- **Verifications:** {{.Counters.Verifications}}
- **Compact Time:**
  - **Avg:** {{.CompactTime.Avg}}
  - **Min:** {{.CompactTime.Min}}
  - **Max:** {{.CompactTime.Max}}

## Final State
- **Elements:** {{.FinalLen}}
- **Slots (incl. holes):** {{.FinalCapacityUsed}}

## Memory Usage (MB)
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} (start) -> {{mb .MemStatsEnd.HeapAlloc}} (end) -> delta: {{mb (bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc)}}
- Total Alloc:    {{mb .MemStatsStart.TotalAlloc}} (start) -> {{mb .MemStatsEnd.TotalAlloc}} (end) -> delta: {{mb (bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc)}}
- Sys Memory:     {{mb .MemStatsStart.Sys}} (start) -> {{mb .MemStatsEnd.Sys}} (end) -> delta: {{mb (bsub .MemStatsEnd.Sys .MemStatsStart.Sys)}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
