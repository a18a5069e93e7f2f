package staging

import (
	"context"
	"fmt"
	"log"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
)

// Recognition parameters are fixed to the audio format the extraction
// tool delivers. Varying source audio is a known gap.
const (
	recognitionSampleRate = 16000
	recognitionLanguage   = "en-US"
)

// SpeechRecognizer implements Recognizer using the Cloud Speech-to-Text
// long-running API.
type SpeechRecognizer struct {
	client *speech.Client
}

// NewSpeechRecognizer creates a recognizer using application default
// credentials.
func NewSpeechRecognizer(ctx context.Context) (*SpeechRecognizer, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}
	return &SpeechRecognizer{client: client}, nil
}

// Recognize submits a long-running transcription for the staged object
// and blocks until it resolves. There is deliberately no timeout: large
// audio files take as long as they take. An interrupt cancels the wait
// through ctx.
func (r *SpeechRecognizer) Recognize(ctx context.Context, uri string) ([]string, error) {
	req := &speechpb.LongRunningRecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_MP3,
			SampleRateHertz: recognitionSampleRate,
			LanguageCode:    recognitionLanguage,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Uri{Uri: uri},
		},
	}

	op, err := r.client.LongRunningRecognize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit recognition: %w", err)
	}

	log.Printf("staging: waiting for transcription of %s", uri)
	resp, err := op.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("wait for recognition: %w", err)
	}

	var texts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		texts = append(texts, result.Alternatives[0].Transcript)
	}
	return texts, nil
}

// Close releases the underlying client.
func (r *SpeechRecognizer) Close() error {
	return r.client.Close()
}
