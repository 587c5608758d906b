package recipe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/metrics"
	"meal-planner/internal/pkg/common"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DatasetRecord 原始資料集中的食譜紀錄
type DatasetRecord struct {
	Title       string   `json:"title" validate:"required"`
	Ingredients []string `json:"ingredients" validate:"required"`
	Directions  []string `json:"directions" validate:"required"`
	Link        *string  `json:"link" validate:"required"`
	Source      *string  `json:"source" validate:"required"`
	NER         []string `json:"NER" validate:"required"`
}

// ImportStats 匯入統計
type ImportStats struct {
	Total    int           `json:"total"`
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   int           `json:"errors"`
	Duration time.Duration `json:"duration"`
}

// Importer 分批將資料集寫入食譜目錄
type Importer struct {
	repo     Repository
	cfg      config.ImportConfig
	rng      RandSource
	validate *validator.Validate
	metrics  *metrics.Collector
}

// NewImporter 創建匯入器
func NewImporter(repo Repository, cfg config.ImportConfig, rng RandSource, m *metrics.Collector) *Importer {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 50
	}
	if cfg.Retries <= 0 {
		cfg.Retries = 1
	}
	return &Importer{
		repo:     repo,
		cfg:      cfg,
		rng:      rng,
		validate: validator.New(),
		metrics:  m,
	}
}

// Run 讀取 JSON 陣列並分批寫入；無效紀錄略過，整批重試失敗時計入錯誤
func (im *Importer) Run(ctx context.Context, r io.Reader) (ImportStats, error) {
	start := time.Now()
	var stats ImportStats

	data, err := io.ReadAll(r)
	if err != nil {
		return stats, fmt.Errorf("failed to read import file: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var elements []json.RawMessage
	if err := common.ParseJSONBytes(data, &elements); err != nil {
		return stats, common.NewValidationError("expected a JSON array of recipes: " + err.Error())
	}
	stats.Total = len(elements)

	common.LogInfo("開始匯入食譜",
		zap.Int("records", len(elements)),
		zap.Int("chunk_size", im.cfg.ChunkSize),
	)

	chunk := make([]Recipe, 0, im.cfg.ChunkSize)
	chunkIndex := 0
	for i, element := range elements {
		recipe, err := im.convert(element)
		if err != nil {
			stats.Skipped++
			common.LogWarn("略過無效食譜紀錄", zap.Int("index", i), zap.Error(err))
			continue
		}

		chunk = append(chunk, recipe)
		if len(chunk) < im.cfg.ChunkSize {
			continue
		}
		if err := im.flush(ctx, chunkIndex, chunk, &stats); err != nil {
			stats.Duration = time.Since(start)
			return stats, err
		}
		chunkIndex++
		chunk = chunk[:0]
	}
	if len(chunk) > 0 {
		if err := im.flush(ctx, chunkIndex, chunk, &stats); err != nil {
			stats.Duration = time.Since(start)
			return stats, err
		}
	}

	stats.Duration = time.Since(start)
	im.metrics.RecipesImported(stats.Imported)

	common.LogInfo("食譜匯入完成",
		zap.Int("imported", stats.Imported),
		zap.Int("skipped", stats.Skipped),
		zap.Int("errors", stats.Errors),
		zap.Duration("duration", stats.Duration),
	)
	return stats, nil
}

func (im *Importer) flush(ctx context.Context, index int, chunk []Recipe, stats *ImportStats) error {
	if index > 0 && im.cfg.ChunkDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(im.cfg.ChunkDelay):
		}
	}

	batch := make([]Recipe, len(chunk))
	copy(batch, chunk)

	var inserted int
	err := common.Retry(ctx, common.RetryPolicy{Attempts: im.cfg.Retries, Delay: im.cfg.RetryDelay}, "import_chunk",
		func(ctx context.Context) error {
			n, err := im.repo.Upsert(ctx, batch)
			if err != nil {
				return err
			}
			inserted = n
			return nil
		})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		stats.Errors += len(batch)
		common.LogError("食譜批次匯入失敗",
			zap.Int("chunk", index+1),
			zap.Int("records", len(batch)),
			zap.Error(err),
		)
		return nil
	}

	stats.Imported += inserted
	stats.Skipped += len(batch) - inserted
	common.LogDebug("食譜批次已寫入",
		zap.Int("chunk", index+1),
		zap.Int("inserted", inserted),
	)
	return nil
}

// convert 已是目錄格式（含 external_id）的紀錄直接正規化，其餘視為原始資料集紀錄
func (im *Importer) convert(element json.RawMessage) (Recipe, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(element, &probe); err != nil {
		return Recipe{}, fmt.Errorf("record is not an object: %w", err)
	}

	if _, ok := probe["external_id"]; ok {
		var raw RawRecipe
		if err := common.ParseJSONBytes(element, &raw); err != nil {
			return Recipe{}, err
		}
		if raw.ExternalID == "" || raw.Title == "" {
			return Recipe{}, fmt.Errorf("catalog record requires external_id and title")
		}
		return Normalize(raw), nil
	}

	var record DatasetRecord
	if err := json.Unmarshal(element, &record); err != nil {
		return Recipe{}, err
	}
	if err := im.validate.Struct(record); err != nil {
		return Recipe{}, fmt.Errorf("invalid dataset record: %w", err)
	}
	return Transform(record, im.rng), nil
}

// Transform 以推估規則將原始資料集紀錄轉為目錄食譜
func Transform(record DatasetRecord, rng RandSource) Recipe {
	source := ""
	if record.Source != nil {
		source = *record.Source
	}

	tags := ExtractTags(record.Ingredients, record.NER)
	prepTime := EstimatePrepTime(record.Directions)
	difficulty := "Medium"
	if found := FilterTags(tags, DifficultyTags); len(found) > 0 {
		difficulty = found[0]
	}

	return Normalize(RawRecipe{
		ExternalID:   ExternalID(source, record.Title),
		Title:        record.Title,
		Description:  GenerateDescription(record.Title, record.Ingredients),
		ImageURL:     DefaultImage,
		TotalTime:    prepTime,
		PrepTime:     prepTime,
		Calories:     EstimateCalories(record.Ingredients, rng),
		Servings:     DefaultServings,
		Ingredients:  record.Ingredients,
		Instructions: record.Directions,
		Tags:         tags,
		Cuisine:      DetectCuisine(record.Ingredients, record.Title),
		DietType:     FilterTags(tags, DietTags),
		Equipment:    DetectEquipment(record.Directions),
		Difficulty:   difficulty,
	})
}

// ExternalID 以 "source_title" 的 base64 作為去重鍵
func ExternalID(source, title string) string {
	return base64.StdEncoding.EncodeToString([]byte(source + "_" + title))
}
