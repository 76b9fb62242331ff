package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/invenx-app/invenx-backend/api/responses"
	"github.com/invenx-app/invenx-backend/api/validators"
	"github.com/invenx-app/invenx-backend/internal/ledger"
	"github.com/invenx-app/invenx-backend/pkg/db/models"
	"github.com/invenx-app/invenx-backend/pkg/enums"
	pkgerrors "github.com/invenx-app/invenx-backend/pkg/errors"
	"github.com/invenx-app/invenx-backend/pkg/logger"
)

type createProductRequest struct {
	Name          string `json:"name" validate:"required"`
	Barcode       string `json:"barcode" validate:"required"`
	Category      string `json:"category"`
	SoldIn        int    `json:"soldIn" validate:"gte=0"`
	SoldOut       int    `json:"soldOut" validate:"gte=0"`
	Damaged       int    `json:"damaged" validate:"gte=0"`
	LowStockLimit int    `json:"lowStockLimit" validate:"gte=0"`
}

type updateProductRequest struct {
	Name          *string `json:"name"`
	Barcode       *string `json:"barcode"`
	Category      *string `json:"category"`
	SoldIn        *int    `json:"soldIn" validate:"omitempty,gte=0"`
	SoldOut       *int    `json:"soldOut" validate:"omitempty,gte=0"`
	Damaged       *int    `json:"damaged" validate:"omitempty,gte=0"`
	LowStockLimit *int    `json:"lowStockLimit" validate:"omitempty,gte=0"`
}

type counterRequest struct {
	Field string `json:"field" validate:"required,oneof=soldIn soldOut damaged"`
}

// ListProducts returns every tracked product.
func ListProducts(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Products(r.Context()))
	}
}

// CreateProduct registers a new product in the ledger.
func CreateProduct(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AddProduct(r.Context(), ledger.AddProductInput{
			Name:          req.Name,
			Barcode:       req.Barcode,
			Category:      req.Category,
			SoldIn:        req.SoldIn,
			SoldOut:       req.SoldOut,
			Damaged:       req.Damaged,
			LowStockLimit: req.LowStockLimit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// GetProduct returns one product by id.
func GetProduct(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		product, ok := svc.Product(r.Context(), id)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// UpdateProduct merges the supplied fields into an existing product.
func UpdateProduct(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), chi.URLParam(r, "id"), ledger.UpdateProductInput{
			Name:          req.Name,
			Barcode:       req.Barcode,
			Category:      req.Category,
			SoldIn:        req.SoldIn,
			SoldOut:       req.SoldOut,
			Damaged:       req.Damaged,
			LowStockLimit: req.LowStockLimit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if product == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct removes a product from the ledger.
func DeleteProduct(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !svc.DeleteProduct(r.Context(), chi.URLParam(r, "id")) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// IncrementProductValue bumps one counter field by one.
func IncrementProductValue(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return counterHandler(svc, logg, svc.IncrementValue)
}

// DecrementProductValue lowers one counter field by one, flooring at zero.
func DecrementProductValue(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return counterHandler(svc, logg, svc.DecrementValue)
}

func counterHandler(svc ledger.Service, logg *logger.Logger, mutate func(ctx context.Context, id string, field enums.CounterField) (*models.Product, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req counterRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		field, err := enums.ParseCounterField(req.Field)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid counter field"))
			return
		}

		product, err := mutate(r.Context(), chi.URLParam(r, "id"), field)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if product == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// GetProductByBarcode resolves a scanned barcode to its product.
func GetProductByBarcode(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		barcode := chi.URLParam(r, "barcode")
		product, ok := svc.FindProductByBarcode(r.Context(), barcode)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no product with that barcode"))
			return
		}
		responses.WriteSuccess(w, product)
	}
}
