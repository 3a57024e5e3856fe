package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"core/internal/config"
	"core/internal/model"
	"core/internal/utils"
)

// intentPrompt asks for the four mutually exclusive intent flags.
const intentPrompt = `You are a query analyst for a property advisor. Classify the user's query.

Respond ONLY with valid JSON in this exact shape:
{"Greeting": bool, "Property_Related": bool, "Farewell": bool, "Other": bool}

Exactly one flag must be true. "Property_Related" covers anything about
flats, houses, prices, areas, floors, localities, amenities or furnishing.`

// fieldMaskPrompt asks which dataset columns matter for the query.
const fieldMaskPrompt = `You decide which property attributes a query is about.

Respond ONLY with valid JSON mapping every key below to a boolean:
{"society": bool, "Price_in_Crore": bool, "Rate_rs_sqft": bool,
 "AreaType": bool, "Area_in_sq_meter": bool, "bedRoom": bool,
 "bathroom": bool, "balcony": bool, "additionalRoom": bool,
 "address": bool, "floorNum": bool, "Totalfloor": bool, "facing": bool,
 "agePossession": bool, "nearbyLocations": bool, "furnishDetails": bool,
 "features": bool, "rating": bool, "top_floor": bool}

Guidance:
- "bedRoom" is true when bedrooms or BHK are mentioned.
- "additionalRoom" covers servant/study/store/pooja rooms.
- "top_floor" is true only when the user wants the topmost floor.
- "nearbyLocations" is true when proximity to some place is requested.
- Set a key true only when the query clearly involves that attribute.`

// criteriaPrompt asks for literal values, verbatim from the query.
const criteriaPrompt = `You extract literal search values from a property query.

Respond ONLY with valid JSON. Include a key only when the query states a
value for it. Allowed keys and value types:
- "Price_in_Crore": number in crore, or [low, high] when a range is given
- "Rate_rs_sqft": number
- "AreaType": one of "Carpet", "Built Up", "Super Built up"
- "Area_in_sq_meter": number, or [low, high] for a range
- "bedRoom", "bathroom", "balcony": integer counts
- "additionalRoom": one of "Pooja Room", "Study Room", "Servant Room",
  "Store Room" or a comma-joined pair like "Store Room,Servant Room"
- "society", "address", "nearbyLocations", "furnishDetails", "features",
  "rating": strings, verbatim from the query
- "floorNum", "Totalfloor": integers (the ground floor is floor 0)
- "facing": one of "East", "West", "North", "South", "North-East",
  "North-West", "South-East", "South-West"
- "agePossession": age of construction or possession in years

Never invent values the user did not state and never convert units.`

// comparatorsPrompt asks for inequality directions on numeric columns.
const comparatorsPrompt = `You decide comparison directions for numeric property columns.

Respond ONLY with valid JSON. Include a key only when the query strictly
asks for "greater than"/"more than"/"above" or "less than"/"under"/"below"
on that attribute. Values must be "Greater than" or "Lesser than".
Allowed keys: "Price_in_Crore", "Rate_rs_sqft", "Area_in_sq_meter",
"bedRoom", "bathroom", "balcony", "floorNum", "Totalfloor".

Omit a key when the user means an exact value or a range.`

// semanticQueryPrompt reformulates the query for description search.
const semanticQueryPrompt = `Rewrite the user's property query into a short sub-query for semantic
search over property descriptions. Keep ONLY content in these categories:
nearby locations, amenity or furnishing features, general description.

Strip all structural constraints: price, rate, area, floor numbers,
bedroom/bathroom/balcony counts, address, facing direction.
Do not add anything the user did not say.

If nothing remains after stripping, reply with exactly: No_User_Query
Reply with the sub-query text only, no explanations.`

// chatPrompt answers non-property queries.
const chatPrompt = `You are a friendly property advisor assistant. The user's message is not a
property search. Reply briefly and courteously, and invite them to describe
the kind of property they are looking for.`

// OpenAIExtractor implements Extractor against an OpenAI-compatible chat
// API. Each structured call is a JSON-mode completion followed by the
// repair parser; every call gets one bounded retry to cover transient
// upstream hiccups without unbounded latency.
type OpenAIExtractor struct {
	client      *openai.Client
	chatModel   string
	embModel    string
	dimensions  int
	temperature float32
	maxTokens   int
	logger      *zap.Logger
}

// NewOpenAIExtractor creates an extractor from the OpenAI config section.
func NewOpenAIExtractor(cfg *config.OpenAIConfig, logger *zap.Logger) *OpenAIExtractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIBase != "" {
		clientCfg.BaseURL = cfg.APIBase
	}
	clientCfg.HTTPClient = &http.Client{
		Timeout: time.Duration(cfg.Timeout) * time.Second,
	}

	return &OpenAIExtractor{
		client:      openai.NewClientWithConfig(clientCfg),
		chatModel:   cfg.ChatModel,
		embModel:    cfg.EmbeddingModel,
		dimensions:  cfg.EmbeddingDimensions,
		temperature: cfg.ChatTemperature,
		maxTokens:   cfg.ChatMaxTokens,
		logger:      logger,
	}
}

// Intent implements Extractor.
func (e *OpenAIExtractor) Intent(ctx context.Context, query string) (*model.Intent, error) {
	var intent model.Intent
	if err := e.completeJSON(ctx, PromptIntent, intentPrompt, query, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// FieldMask implements Extractor.
func (e *OpenAIExtractor) FieldMask(ctx context.Context, query string) (*model.FieldMask, error) {
	var mask model.FieldMask
	if err := e.completeJSON(ctx, PromptFieldMask, fieldMaskPrompt, query, &mask); err != nil {
		return nil, err
	}
	return &mask, nil
}

// Criteria implements Extractor.
func (e *OpenAIExtractor) Criteria(ctx context.Context, query string) (*model.SearchCriteria, error) {
	var criteria model.SearchCriteria
	if err := e.completeJSON(ctx, PromptCriteria, criteriaPrompt, query, &criteria); err != nil {
		return nil, err
	}
	return &criteria, nil
}

// Comparators implements Extractor.
func (e *OpenAIExtractor) Comparators(ctx context.Context, query string) (*model.ComparatorMap, error) {
	var comparators model.ComparatorMap
	if err := e.completeJSON(ctx, PromptComparators, comparatorsPrompt, query, &comparators); err != nil {
		return nil, err
	}
	return &comparators, nil
}

// SemanticQuery implements Extractor. Reasoning models may prefix their
// answer with a thinking block; anything before a closing </think> tag is
// discarded before sentinel detection.
func (e *OpenAIExtractor) SemanticQuery(ctx context.Context, query string) (string, error) {
	text, err := e.completeText(ctx, PromptSemanticQuery, semanticQueryPrompt, query)
	if err != nil {
		return "", err
	}
	if idx := strings.LastIndex(text, "</think>"); idx >= 0 {
		text = text[idx+len("</think>"):]
	}
	return strings.TrimSpace(text), nil
}

// Respond implements Extractor.
func (e *OpenAIExtractor) Respond(ctx context.Context, query string) (string, error) {
	text, err := e.completeText(ctx, PromptChat, chatPrompt, query)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Embed generates embeddings for the given texts. Used by the hybrid
// retriever at query time and by description indexing.
func (e *OpenAIExtractor) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := openai.EmbeddingRequest{
		Input:          texts,
		Model:          openai.EmbeddingModel(e.embModel),
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	resp, err := e.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d for %d inputs", len(resp.Data), len(texts))
	}

	embeddings := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < len(embeddings) {
			embeddings[item.Index] = item.Embedding
		}
	}
	return embeddings, nil
}

// completeJSON runs a JSON-mode completion and repair-parses the body into
// target. Failures after the retry surface as *ExtractionError.
func (e *OpenAIExtractor) completeJSON(ctx context.Context, kind PromptKind, system, query string, target interface{}) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		content, err := e.chatOnce(ctx, system, query, true)
		if err != nil {
			lastErr = err
		} else if err = utils.ParseModelJSON(content, target); err != nil {
			lastErr = fmt.Errorf("parse response: %w", err)
			e.logger.Warn("unparseable extraction response",
				zap.String("kind", string(kind)),
				zap.Int("attempt", attempt),
				zap.String("content", content))
		} else {
			return nil
		}

		if ctx.Err() != nil {
			break
		}
	}
	return &ExtractionError{Kind: kind, Err: lastErr}
}

// completeText runs a plain-text completion with the same retry policy.
func (e *OpenAIExtractor) completeText(ctx context.Context, kind PromptKind, system, query string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		content, err := e.chatOnce(ctx, system, query, false)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", &ExtractionError{Kind: kind, Err: lastErr}
}

func (e *OpenAIExtractor) chatOnce(ctx context.Context, system, query string, jsonMode bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       e.chatModel,
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
