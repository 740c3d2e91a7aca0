package ocr

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"

	"github.com/kabalen/permitdocs/internal/pdf"
)

// OpenAIFactory creates vision-transcription workers backed by the OpenAI
// chat completions API. Used where a tesseract install is not available.
type OpenAIFactory struct {
	client *openai.Client
	model  string
}

func NewOpenAIFactory(apiKey, model string) *OpenAIFactory {
	if model == "" {
		model = "gpt-4o-mini"
	}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &OpenAIFactory{client: &client, model: model}
}

func (f *OpenAIFactory) NewWorker(ctx context.Context) (Worker, error) {
	return &openaiWorker{client: f.client, model: f.model}, nil
}

type openaiWorker struct {
	client *openai.Client
	model  string
}

const transcribePrompt = `Transcribe ALL visible text from this document image exactly as it appears, ` +
	`preserving line breaks. Return ONLY the transcribed text with no commentary.`

func (w *openaiWorker) Recognize(ctx context.Context, imageData []byte, onProgress ProgressFunc) (string, error) {
	report := func(p int) {
		if onProgress != nil {
			onProgress(p)
		}
	}
	report(0)

	// The vision API wants a correctly labeled data URL; re-encode anything
	// that is not already JPEG
	if format, err := pdf.DetectImageFormat(imageData); err != nil || format != "jpeg" {
		if converted, cerr := pdf.ConvertImageToJPEG(imageData); cerr == nil {
			imageData = converted
		}
	}

	base64Image := base64.StdEncoding.EncodeToString(imageData)
	dataURL := fmt.Sprintf("data:image/jpeg;base64,%s", base64Image)

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage("You are a precise OCR engine for scanned government documents."),
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
						{
							OfText: &openai.ChatCompletionContentPartTextParam{
								Type: constant.Text("text"),
								Text: transcribePrompt,
							},
						},
						{
							OfImageURL: &openai.ChatCompletionContentPartImageParam{
								Type: constant.ImageURL("image_url"),
								ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
									URL:    dataURL,
									Detail: "high", // High detail for better OCR
								},
							},
						},
					},
				},
			},
		},
	}

	completion, err := w.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       openai.ChatModel(w.model),
		Temperature: openai.Float(0),
		MaxTokens:   openai.Int(4000),
	})
	if err != nil {
		return "", fmt.Errorf("openai vision api error: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("no response from openai")
	}

	report(100)
	return completion.Choices[0].Message.Content, nil
}

// Terminate is a no-op; the API client is owned by the factory
func (w *openaiWorker) Terminate() error {
	return nil
}
