package recipe

import (
	"context"
	"fmt"
	"os"

	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// LoadCatalog 讀取 YAML 格式的種子食譜清單
func LoadCatalog(path string) ([]RawRecipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog 解析 YAML 種子食譜
func ParseCatalog(data []byte) ([]RawRecipe, error) {
	var raws []RawRecipe
	if err := yaml.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return raws, nil
}

// Seed 目錄為空時寫入種子食譜，回傳新增筆數
func Seed(ctx context.Context, repo Repository, raws []RawRecipe) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		common.LogDebug("食譜目錄已有資料，略過種子匯入", zap.Int64("count", count))
		return 0, nil
	}

	recipes := make([]Recipe, 0, len(raws))
	for _, raw := range raws {
		recipe := Normalize(raw)
		if recipe.ExternalID == "" {
			recipe.ExternalID = ExternalID("seed", recipe.Title)
		}
		recipes = append(recipes, recipe)
	}

	inserted, err := repo.Upsert(ctx, recipes)
	if err != nil {
		return 0, err
	}

	common.LogInfo("種子食譜已寫入", zap.Int("inserted", inserted))
	return inserted, nil
}
