package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/recipe-share/backend/internal/models"
	"github.com/pageza/recipe-share/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeService handles recipe operations. Writes are restricted to the
// recipe's author; a non-author gets the same answer as for a missing recipe.
type RecipeService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// recipeRow is a recipe joined with its author's username.
type recipeRow struct {
	models.Recipe
	AuthorUsername string
}

// ListAll returns every recipe in the requested order.
func (s *RecipeService) ListAll(ctx context.Context, opts types.ListOptions) ([]types.RecipeView, error) {
	return s.list(ctx, s.viewQuery(ctx, s.db), opts)
}

// ListByAuthor returns the recipes of the named user. An unknown username
// yields an empty list.
func (s *RecipeService) ListByAuthor(ctx context.Context, username string, opts types.ListOptions) ([]types.RecipeView, error) {
	var author models.User
	err := s.db.WithContext(ctx).Select("id").Where("username = ?", username).Take(&author).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []types.RecipeView{}, nil
		}
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}

	q := s.viewQuery(ctx, s.db).Where("recipes.author_id = ?", author.ID)
	return s.list(ctx, q, opts)
}

// ListByTag returns the recipes whose tag list contains tag exactly.
func (s *RecipeService) ListByTag(ctx context.Context, tag string, opts types.ListOptions) ([]types.RecipeView, error) {
	q := s.viewQuery(ctx, s.db)
	if s.db.Dialector.Name() == "postgres" {
		needle, err := json.Marshal([]string{tag})
		if err != nil {
			return nil, err
		}
		q = q.Where("recipes.tags @> CAST(? AS jsonb)", string(needle))
	} else {
		q = q.Where("EXISTS (SELECT 1 FROM json_each(recipes.tags) WHERE json_each.value = ?)", tag)
	}
	return s.list(ctx, q, opts)
}

// GetByID returns the recipe, or nil when it does not exist or id is not a
// valid identifier.
func (s *RecipeService) GetByID(ctx context.Context, id string) (*types.RecipeView, error) {
	recipeID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	return s.getView(ctx, s.db, recipeID)
}

// Create stores a new recipe owned by callerID.
func (s *RecipeService) Create(ctx context.Context, callerID uuid.UUID, req *types.CreateRecipeRequest) (*types.RecipeView, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, requiredField("title")
	}

	recipe := &models.Recipe{
		Title:        title,
		AuthorID:     callerID,
		Ingredients:  cleanList(req.Ingredients),
		Instructions: req.Instructions,
		ImageURL:     strings.TrimSpace(req.ImageURL),
		Tags:         cleanList(req.Tags),
	}
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	log.Printf("[RecipeService] Created recipe %s for author %s", recipe.ID, callerID)
	return s.getView(ctx, s.db, recipe.ID)
}

// Update applies the non-nil fields of req to the recipe if callerID is its
// author. It returns nil when no such recipe exists for that author.
func (s *RecipeService) Update(ctx context.Context, callerID uuid.UUID, id string, req *types.UpdateRecipeRequest) (*types.RecipeView, error) {
	recipeID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	if req.IsEmpty() {
		log.Printf("[RecipeService] Empty patch for recipe %s, touching updated_at only", recipeID)
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, requiredField("title")
		}
		updates["title"] = title
	}
	if req.Ingredients != nil {
		updates["ingredients"] = cleanList(*req.Ingredients)
	}
	if req.Instructions != nil {
		updates["instructions"] = *req.Instructions
	}
	if req.ImageURL != nil {
		updates["image_url"] = strings.TrimSpace(*req.ImageURL)
	}
	if req.Tags != nil {
		updates["tags"] = cleanList(*req.Tags)
	}

	var view *types.RecipeView
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Recipe
		err := tx.Select("id", "updated_at").
			Where("id = ? AND author_id = ?", recipeID, callerID).
			Take(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		updates["updated_at"] = s.nextUpdatedAt(existing.UpdatedAt)
		res := tx.Model(&models.Recipe{}).
			Where("id = ? AND author_id = ?", recipeID, callerID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		view, err = s.getView(ctx, tx, recipeID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return view, nil
}

// Delete removes the recipe if callerID is its author and reports how many
// recipes were deleted.
func (s *RecipeService) Delete(ctx context.Context, callerID uuid.UUID, id string) (int64, error) {
	recipeID, err := uuid.Parse(id)
	if err != nil {
		return 0, nil
	}

	var deleted int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND author_id = ?", recipeID, callerID).Delete(&models.Recipe{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		if deleted == 0 {
			return nil
		}
		return tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeLike{}).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete recipe: %w", err)
	}

	if deleted > 0 {
		log.Printf("[RecipeService] Deleted recipe %s", recipeID)
	}
	return deleted, nil
}

// ToggleLike adds callerID to the recipe's likes, or removes it if already
// present. It returns nil when the recipe does not exist.
func (s *RecipeService) ToggleLike(ctx context.Context, callerID uuid.UUID, id string) (*types.RecipeView, error) {
	recipeID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	var view *types.RecipeView
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Select("id", "updated_at").Where("id = ?", recipeID).Take(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		res := tx.Where("recipe_id = ? AND user_id = ?", recipeID, callerID).Delete(&models.RecipeLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			like := &models.RecipeLike{RecipeID: recipeID, UserID: callerID, CreatedAt: s.now()}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).
			Update("updated_at", s.nextUpdatedAt(recipe.UpdatedAt)).Error; err != nil {
			return err
		}

		view, err = s.getView(ctx, tx, recipeID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}
	return view, nil
}

// viewQuery selects recipes with the author's username resolved.
func (s *RecipeService) viewQuery(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx).
		Model(&models.Recipe{}).
		Select("recipes.*, COALESCE(users.username, '') AS author_username").
		Joins("LEFT JOIN users ON users.id = recipes.author_id")
}

func (s *RecipeService) list(ctx context.Context, q *gorm.DB, opts types.ListOptions) ([]types.RecipeView, error) {
	var rows []recipeRow
	err := q.Order(clause.OrderByColumn{
		Column: clause.Column{Table: "recipes", Name: opts.Column()},
		Desc:   !opts.Ascending(),
	}).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	views, err := s.toViews(ctx, s.db, rows)
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (s *RecipeService) getView(ctx context.Context, db *gorm.DB, id uuid.UUID) (*types.RecipeView, error) {
	var rows []recipeRow
	if err := s.viewQuery(ctx, db).Where("recipes.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	views, err := s.toViews(ctx, db, rows)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// toViews attaches likes to rows with a single query.
func (s *RecipeService) toViews(ctx context.Context, db *gorm.DB, rows []recipeRow) ([]types.RecipeView, error) {
	views := make([]types.RecipeView, 0, len(rows))
	if len(rows) == 0 {
		return views, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}

	var likes []models.RecipeLike
	err := db.WithContext(ctx).
		Where("recipe_id IN ?", ids).
		Order("created_at ASC").Order("user_id ASC").
		Find(&likes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load likes: %w", err)
	}

	byRecipe := make(map[uuid.UUID][]uuid.UUID, len(rows))
	for _, l := range likes {
		byRecipe[l.RecipeID] = append(byRecipe[l.RecipeID], l.UserID)
	}

	for i := range rows {
		r := &rows[i]
		liked := byRecipe[r.ID]
		if liked == nil {
			liked = []uuid.UUID{}
		}
		views = append(views, types.RecipeView{
			ID:             r.ID,
			Title:          r.Title,
			AuthorID:       r.AuthorID,
			AuthorUsername: r.AuthorUsername,
			Ingredients:    nonNil(r.Ingredients),
			Instructions:   r.Instructions,
			ImageURL:       r.ImageURL,
			Tags:           nonNil(r.Tags),
			Likes:          liked,
			LikeCount:      len(liked),
			CreatedAt:      r.CreatedAt,
			UpdatedAt:      r.UpdatedAt,
		})
	}
	return views, nil
}

// nextUpdatedAt returns now, or a microsecond past prev when the clock has
// not moved beyond it, so every write advances updated_at. Values are
// microsecond aligned since Postgres timestamps drop anything finer.
func (s *RecipeService) nextUpdatedAt(prev time.Time) time.Time {
	now := s.now().Truncate(time.Microsecond)
	if !now.After(prev) {
		return prev.Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return now
}

func cleanList(in []string) models.StringArray {
	out := make(models.StringArray, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func nonNil(a models.StringArray) []string {
	if a == nil {
		return []string{}
	}
	return []string(a)
}
