package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/fridgechef/backend/internal/apperr"
	"github.com/fridgechef/backend/internal/models"
	"github.com/fridgechef/backend/internal/recommend"
	"github.com/fridgechef/backend/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errImagesDisabled = errors.New("image generation is not configured")

// RecommendationConfig bounds the collaborator calls of one enrichment.
type RecommendationConfig struct {
	TextTimeout    time.Duration
	ImageTimeout   time.Duration
	PlaceholderURL string
	// Parallel resolves the ranked candidates concurrently.
	Parallel bool
}

// RecommendationDeps are the collaborators of the orchestrator. Text, Images
// and Store may be nil, in which case enrichment uses defaults.
type RecommendationDeps struct {
	DB     *gorm.DB
	Engine *recommend.Engine
	Text   TextGenerator
	Images ImageGenerator
	Store  ImageStore
	Locker NameLocker
	Logger *zap.Logger
	Config RecommendationConfig
}

// RecommendationService ranks dataset recipes for a request, persists the
// winners and enriches each persisted recipe with generated text and an
// image at most once.
type RecommendationService struct {
	db     *gorm.DB
	engine *recommend.Engine
	text   TextGenerator
	images ImageGenerator
	store  ImageStore
	locker NameLocker
	cfg    RecommendationConfig
	logger *zap.Logger

	// group collapses concurrent preparation of the same recipe name.
	group singleflight.Group
}

func NewRecommendationService(deps RecommendationDeps) *RecommendationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	locker := deps.Locker
	if locker == nil {
		locker = NewKeyedMutex()
	}
	return &RecommendationService{
		db:     deps.DB,
		engine: deps.Engine,
		text:   deps.Text,
		images: deps.Images,
		store:  deps.Store,
		locker: locker,
		cfg:    deps.Config,
		logger: logger,
	}
}

// prepared is a persisted, enriched recipe. fresh holds the generated details
// when enrichment ran during this preparation.
type prepared struct {
	recipe *models.Recipe
	fresh  *RecipeDetails
}

// Recommend ranks the dataset against ingredients and returns the projection
// of every winner. Collaborator failures degrade to defaults; only storage
// failures are returned.
func (s *RecommendationService) Recommend(ctx context.Context, ingredients []string) ([]types.RecommendedRecipe, error) {
	results, err := s.engine.Recommend(ingredients)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}

	out := make([]types.RecommendedRecipe, len(results))
	if s.cfg.Parallel && len(results) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		for i := range results {
			g.Go(func() error {
				r, err := s.resolve(gctx, results[i])
				if err != nil {
					return err
				}
				out[i] = r
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return out, nil
	}

	for i := range results {
		r, err := s.resolve(ctx, results[i])
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func (s *RecommendationService) resolve(ctx context.Context, res recommend.MatchResult) (types.RecommendedRecipe, error) {
	if err := ctx.Err(); err != nil {
		return types.RecommendedRecipe{}, err
	}
	// The shared preparation outlives any single caller; the collaborator
	// timeouts bound it instead.
	ch := s.group.DoChan(res.Recipe.Title, func() (interface{}, error) {
		return s.prepare(context.WithoutCancel(ctx), res.Recipe)
	})

	select {
	case <-ctx.Done():
		return types.RecommendedRecipe{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return types.RecommendedRecipe{}, r.Err
		}
		return project(r.Val.(*prepared), res), nil
	}
}

func (s *RecommendationService) prepare(ctx context.Context, c recommend.Candidate) (*prepared, error) {
	unlock, err := s.locker.Lock(ctx, "recipe:"+c.Title)
	if err != nil {
		return nil, apperr.Unexpected(fmt.Errorf("failed to lock recipe %q: %w", c.Title, err))
	}
	defer unlock()

	recipe, err := s.upsert(ctx, c)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if err := s.attachDatasetIngredients(ctx, recipe.ID, c); err != nil {
		return nil, apperr.Unexpected(err)
	}
	fresh, err := s.enrichText(ctx, recipe.ID, c)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	s.enrichImage(ctx, recipe)

	loaded, err := loadRecipe(ctx, s.db, recipe.ID)
	if err != nil {
		return nil, err
	}
	return &prepared{recipe: loaded, fresh: fresh}, nil
}

// upsert finds the dataset recipe by name or creates it. Time, difficulty and
// category are only written on creation.
func (s *RecommendationService) upsert(ctx context.Context, c recommend.Candidate) (*models.Recipe, error) {
	key := c.Title
	minutes := c.Time
	if minutes <= 0 {
		minutes = models.DefaultCookingTime
	}
	candidate := models.Recipe{
		DatasetKey:  &key,
		Name:        c.Title,
		CookingTime: minutes,
		Difficulty:  orDefault(c.Difficulty, models.DefaultDifficulty),
		Category:    orDefault(c.Category, models.DefaultCategory),
		Dishwashing: models.DefaultDishwashing,
	}
	err := s.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "dataset_key"}},
		DoNothing: true,
	}).Create(&candidate).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert recipe %q: %w", key, err)
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).Where("dataset_key = ?", key).First(&recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipe %q: %w", key, err)
	}
	return &recipe, nil
}

// attachDatasetIngredients links the candidate's ingredients when the recipe
// has none yet.
func (s *RecommendationService) attachDatasetIngredients(ctx context.Context, recipeID uint, c recommend.Candidate) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.RecipeIngredient{}).Where("recipe_id = ?", recipeID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	items := ingredientInputs(recommend.ParseIngredients(c.Raw()))
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return attachIngredients(tx, recipeID, items)
	})
}

// enrichText generates and stores the recipe's narrative fields and steps
// unless it already has steps. It returns the generated details when it ran.
func (s *RecommendationService) enrichText(ctx context.Context, recipeID uint, c recommend.Candidate) (*RecipeDetails, error) {
	var steps int64
	if err := s.db.WithContext(ctx).Model(&models.Step{}).Where("recipe_id = ?", recipeID).Count(&steps).Error; err != nil {
		return nil, err
	}
	if steps > 0 {
		return nil, nil
	}

	details := s.generateDetails(ctx, c)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"description":             details.Description,
			"tips":                    models.StringList(details.Tips),
			"nutrition":               details.Nutrition,
			"required_equipment":      models.StringList(details.RequiredEquipment),
			"health_tags":             models.StringList(details.HealthTags),
			"alternative_ingredients": details.AlternativeIngredients,
			"late_night_suitable":     details.LateNightSuitable,
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Updates(updates).Error; err != nil {
			return err
		}
		return insertSteps(tx, recipeID, details.Steps)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store recipe details: %w", err)
	}

	EnrichmentsTotal.Inc()
	s.logger.Info("recipe enriched", zap.Uint("recipe_id", recipeID), zap.String("recipe", c.Title), zap.Int("steps", len(details.Steps)))
	return &details, nil
}

func (s *RecommendationService) generateDetails(ctx context.Context, c recommend.Candidate) RecipeDetails {
	if s.text == nil {
		AIFallbacksTotal.WithLabelValues(kindText, "disabled").Inc()
		return FallbackRecipeDetails()
	}

	tctx, cancel := withOptionalTimeout(ctx, s.cfg.TextTimeout)
	defer cancel()

	reply, err := s.text.Complete(tctx, recipeSystemPrompt, recipeDetailsPrompt(c.Title, c.Raw()))
	if err != nil {
		reason := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		AIFallbacksTotal.WithLabelValues(kindText, reason).Inc()
		s.logger.Warn("text generation failed, using fallback details",
			zap.String("recipe", c.Title), zap.String("reason", reason), zap.Error(err))
		return FallbackRecipeDetails()
	}

	details, err := ParseRecipeDetails(reply)
	if err != nil {
		AIFallbacksTotal.WithLabelValues(kindText, "unparseable").Inc()
		s.logger.Warn("text generation reply unparseable, using fallback details",
			zap.String("recipe", c.Title), zap.String("reply", truncate(reply, 200)), zap.Error(err))
	}
	return details
}

// enrichImage replaces a missing or placeholder image with a generated one.
// When generation fails a placeholder is set, but only if there is no image.
func (s *RecommendationService) enrichImage(ctx context.Context, recipe *models.Recipe) {
	if recipe.Image != "" && !IsPlaceholderImage(recipe.Image) {
		return
	}

	imageURL, err := s.generateImage(ctx, recipe.Name)
	if err != nil {
		if !errors.Is(err, errImagesDisabled) {
			s.logger.Warn("image generation failed", zap.String("recipe", recipe.Name), zap.Error(err))
		}
		if recipe.Image != "" || s.cfg.PlaceholderURL == "" {
			return
		}
		AIFallbacksTotal.WithLabelValues(kindImage, "placeholder").Inc()
		imageURL = PlaceholderImageURL(s.cfg.PlaceholderURL, recipe.Name)
	}

	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipe.ID).Update("image", imageURL).Error; err != nil {
		s.logger.Error("failed to store recipe image", zap.Uint("recipe_id", recipe.ID), zap.Error(err))
		return
	}
	recipe.Image = imageURL
}

func (s *RecommendationService) generateImage(ctx context.Context, name string) (string, error) {
	if s.images == nil || s.store == nil {
		return "", errImagesDisabled
	}

	ictx, cancel := withOptionalTimeout(ctx, s.cfg.ImageTimeout)
	defer cancel()

	data, err := s.images.GenerateImage(ictx, imagePrompt(name))
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("empty image")
	}
	return s.store.Save(ictx, name, data)
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// project builds the response for one winner. Freshly generated values win
// over stored ones for the fields the generator decides.
func project(p *prepared, res recommend.MatchResult) types.RecommendedRecipe {
	r := p.recipe
	subs := r.AlternativeIngredients
	if subs == nil {
		subs = models.Substitutions{}
	}
	out := types.RecommendedRecipe{
		ID:                     PublicRecipeID(r.ID),
		Name:                   r.Name,
		CookingTime:            r.CookingTime,
		Difficulty:             r.Difficulty,
		Category:               r.Category,
		LateNightSuitable:      r.LateNightSuitable,
		HealthTags:             nonNil(r.HealthTags),
		Ingredients:            ingredientAmounts(r.Ingredients),
		Steps:                  stepContents(r.Steps),
		Image:                  r.Image,
		Description:            r.Description,
		Tips:                   nonNil(r.Tips),
		Nutrition:              r.Nutrition,
		RequiredEquipment:      nonNil(r.RequiredEquipment),
		AlternativeIngredients: subs,
		Author:                 types.AIAuthor,
		IsUserRecipe:           false,
		MatchCount:             res.MatchCount,
		MatchRate:              math.Round(res.MatchRate*10) / 10,
	}
	if f := p.fresh; f != nil {
		out.CookingTime = f.CookingTime
		out.Difficulty = f.Difficulty
		out.Category = f.Category
		out.LateNightSuitable = f.LateNightSuitable
		out.HealthTags = nonNil(f.HealthTags)
		out.RequiredEquipment = nonNil(f.RequiredEquipment)
		out.AlternativeIngredients = f.AlternativeIngredients
	}
	if len(out.RequiredEquipment) == 0 {
		out.RequiredEquipment = []string{defaultEquipmentUI}
	}
	return out
}
