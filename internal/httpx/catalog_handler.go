package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/minkhant-dev/foodcourt/internal/catalog"
	"github.com/minkhant-dev/foodcourt/internal/uploads"
)

type CatalogHandler struct {
	Repo    *catalog.Repo
	Uploads *uploads.Store
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Post("/menu", h.createMenu)
	r.Get("/menu/shop/{shopID}", h.listMenu)
	r.Post("/ingredients", h.createIngredient)
	r.Get("/ingredients/shop/{shopID}", h.listIngredients)
	r.Post("/categories", h.createCategory)
	r.Get("/categories/shop/{shopID}", h.listCategories)
	r.Put("/categories/{id}", h.updateCategory)
	r.Delete("/categories/{id}", h.deleteCategory)
}

type createMenuReq struct {
	ShopID      string          `json:"shop_id"`
	Name        string          `json:"name"`
	Prices      string          `json:"prices"`
	Category    string          `json:"category"`
	Photo       string          `json:"photo"`
	Size        string          `json:"size"`
	Description string          `json:"description"`
	RelateMenu  json.RawMessage `json:"relate_menu"`
	RelateIngr  json.RawMessage `json:"relate_ingredients"`
	GetMonths   json.RawMessage `json:"get_months"`
}

func (h *CatalogHandler) createMenu(w http.ResponseWriter, r *http.Request) {
	var req createMenuReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ShopID == "" || req.Name == "" || req.Prices == "" {
		writeError(w, http.StatusBadRequest, "shop_id, name and prices are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	m := &catalog.MenuItem{
		ShopID:      req.ShopID,
		Name:        req.Name,
		Prices:      req.Prices,
		Category:    req.Category,
		Size:        req.Size,
		Description: req.Description,
		RelateMenu:  req.RelateMenu,
		RelateIngr:  req.RelateIngr,
		GetMonths:   req.GetMonths,
	}
	if req.Photo != "" {
		path, err := h.Uploads.SaveBase64(uploads.KindMenu, req.ShopID, req.Photo)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid photo")
			return
		}
		m.Photo = path
	}

	id, err := h.Repo.CreateMenu(ctx, m)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "menuId": id})
}

func (h *CatalogHandler) listMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.Repo.ListMenuByShop(ctx, chi.URLParam(r, "shopID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if list == nil {
		list = []catalog.MenuItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": list})
}

type createIngredientReq struct {
	ShopID string `json:"shop_id"`
	Name   string `json:"name"`
	Prices string `json:"prices"`
	Photo  string `json:"photo"`
}

func (h *CatalogHandler) createIngredient(w http.ResponseWriter, r *http.Request) {
	var req createIngredientReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ShopID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "shop_id and name are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	in := &catalog.Ingredient{
		ShopID: req.ShopID,
		Name:   req.Name,
		Prices: req.Prices,
	}
	if req.Photo != "" {
		path, err := h.Uploads.SaveBase64(uploads.KindIngredients, req.ShopID, req.Photo)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid photo")
			return
		}
		in.Photo = path
	}

	id, err := h.Repo.CreateIngredient(ctx, in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "ingredientId": id})
}

func (h *CatalogHandler) listIngredients(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.Repo.ListIngredientsByShop(ctx, chi.URLParam(r, "shopID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if list == nil {
		list = []catalog.Ingredient{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": list})
}

type categoryReq struct {
	ShopID string `json:"shop_id"`
	Name   string `json:"name"`
	Icon   int    `json:"icon"`
}

func (h *CatalogHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ShopID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "shop_id and name are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c := &catalog.Category{ShopID: req.ShopID, Name: req.Name, Icon: req.Icon}
	id, err := h.Repo.CreateCategory(ctx, c)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "categoryId": id})
}

func (h *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.Repo.ListCategoriesByShop(ctx, chi.URLParam(r, "shopID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if list == nil {
		list = []catalog.Category{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": list})
}

func (h *CatalogHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Repo.UpdateCategory(ctx, chi.URLParam(r, "id"), req.Name, req.Icon)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Category updated"})
}

func (h *CatalogHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Repo.DeleteCategory(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Category deleted"})
}
