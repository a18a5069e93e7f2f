package transcript

import (
	"context"
	"log"
	"time"

	"ytscribe/youtube"
)

// Stats counts batch outcomes. Counters are monotonically incremented,
// one per processed video.
type Stats struct {
	// New is the number of freshly saved transcripts.
	New int
	// Skipped is the number of videos whose artifact already existed.
	Skipped int
	// Errors is the number of isolated per-video failures.
	Errors int
}

// Result records the outcome of one video for reporting and the run
// manifest.
type Result struct {
	// VideoID is the processed video.
	VideoID string
	// Title is the video title.
	Title string
	// File is the derived artifact name.
	File string
	// Status classifies the outcome.
	Status Status
	// Detail carries the failure reason for StatusFailed.
	Detail string
	// Retrieved is when the outcome was produced.
	Retrieved time.Time
}

// Orchestrator processes a resolved video sequence strictly in order:
// one video's strategy execution always completes before the next
// begins. A single video's failure never aborts the batch.
type Orchestrator struct {
	// Executor runs the acquisition strategy per video.
	Executor *Executor
	// Log receives a framed entry for every saved transcript. May be
	// nil, in which case successes are not aggregated.
	Log *CombinedLog
}

// Run processes each video and returns the batch stats and per-video
// results. It returns an error only when the context is canceled;
// per-video failures are counted, logged, and skipped past.
func (o *Orchestrator) Run(ctx context.Context, videos []youtube.VideoInfo) (Stats, []Result, error) {
	var stats Stats
	results := make([]Result, 0, len(videos))

	for i, video := range videos {
		if err := ctx.Err(); err != nil {
			return stats, results, err
		}

		log.Printf("transcript: processing %d/%d: %s (%s)", i+1, len(videos), video.ID, video.Title)

		outcome := o.Executor.Process(ctx, video)
		result := Result{
			VideoID:   video.ID,
			Title:     video.Title,
			File:      outcome.File,
			Status:    outcome.Status,
			Retrieved: time.Now(),
		}

		switch outcome.Status {
		case StatusSaved:
			stats.New++
			log.Printf("transcript: saved %s", outcome.File)
			if o.Log != nil {
				if err := o.Log.Append(Entry{
					Filename:  outcome.File,
					Title:     video.Title,
					VideoID:   video.ID,
					Retrieved: result.Retrieved,
					Text:      outcome.Text,
				}); err != nil {
					// The artifact exists; only the aggregate write failed.
					stats.New--
					stats.Errors++
					result.Status = StatusFailed
					result.Detail = err.Error()
					log.Printf("transcript: combined log append for %s: %v", video.ID, err)
				}
			}
		case StatusSkipped:
			stats.Skipped++
			log.Printf("transcript: existing %s, skipping", outcome.File)
		case StatusFailed:
			stats.Errors++
			result.Detail = outcome.Err.Error()
			log.Printf("transcript: %v", outcome.Err)
		}

		results = append(results, result)
	}

	return stats, results, nil
}
