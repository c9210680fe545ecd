package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Priyanka03s/travel-sid-sub002/internal/api/middleware"
	"github.com/Priyanka03s/travel-sid-sub002/internal/models"
	"github.com/Priyanka03s/travel-sid-sub002/internal/services"
	"github.com/Priyanka03s/travel-sid-sub002/internal/storage"
)

// ListingHandler handles the REST endpoints of trips, events and
// adventure schools. Route kind is bound per endpoint.
type ListingHandler struct {
	listingService services.IListingService
	storageService storage.IS3Storage
}

// NewListingHandler creates a new ListingHandler. storageService may be nil,
// in which case presigning is unavailable.
func NewListingHandler(listingService services.IListingService, storageService storage.IS3Storage) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		storageService: storageService,
	}
}

// PresignRequest asks for an upload URL for one listing image.
type PresignRequest struct {
	Filename    string `json:"filename" validate:"required,max=200"`
	ContentType string `json:"contentType" validate:"required,oneof=image/jpeg image/png"`
}

// ConfirmImageRequest reports an object uploaded through a presigned URL.
type ConfirmImageRequest struct {
	Key string `json:"key" validate:"required"`
}

// Search handles GET /v1/{kind}: published listings, newest first.
func (h *ListingHandler) Search(kind models.ListingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 0
		if limitStr := c.Query("limit"); limitStr != "" {
			var err error
			if limit, err = strconv.Atoi(limitStr); err != nil || limit < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"message": "limit must be a non-negative integer"})
				return
			}
		}

		listings, nextCursor, err := h.listingService.SearchPublished(c.Request.Context(), services.SearchParams{
			Kind:        kind,
			Destination: c.Query("destination"),
			Category:    c.Query("category"),
			Limit:       limit,
			Cursor:      c.Query("cursor"),
		})
		if err != nil {
			respondError(c, err, "Failed to search listings")
			return
		}
		if listings == nil {
			listings = []models.Listing{}
		}
		c.JSON(http.StatusOK, gin.H{
			"listings":   listings,
			"nextCursor": nextCursor,
		})
	}
}

// Get handles GET /v1/{kind}/:id. Only published listings are public.
func (h *ListingHandler) Get(kind models.ListingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		listing, err := h.listingService.FindPublishedListing(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err, "Failed to retrieve listing")
			return
		}
		if listing.Kind != kind {
			c.JSON(http.StatusNotFound, gin.H{"message": "Listing not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Listing retrieved", "listing": listing})
	}
}

// Create handles POST /v1/{kind}: stores a new draft.
func (h *ListingHandler) Create(kind models.ListingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var draft models.Listing
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
			return
		}

		listing, warnings, err := h.listingService.CreateListing(c.Request.Context(), middleware.HostID(c), kind, &draft)
		if err != nil {
			respondError(c, err, "Failed to create listing")
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":  "Draft created",
			"listing":  listing,
			"warnings": warnings,
		})
	}
}

// hostListingOfKind loads a listing owned by the caller and answers 404 when
// it is not of the route kind. It reports whether the handler may go on.
func (h *ListingHandler) hostListingOfKind(c *gin.Context, kind models.ListingKind) (*models.Listing, bool) {
	listing, err := h.listingService.FindHostListing(c.Request.Context(), c.Param("id"), middleware.HostID(c))
	if err != nil {
		respondError(c, err, "Failed to retrieve listing")
		return nil, false
	}
	if listing.Kind != kind {
		c.JSON(http.StatusNotFound, gin.H{"message": "Listing not found"})
		return nil, false
	}
	return listing, true
}

// Update handles PUT /v1/{kind}/:id.
func (h *ListingHandler) Update(kind models.ListingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var draft models.Listing
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
			return
		}
		if _, ok := h.hostListingOfKind(c, kind); !ok {
			return
		}

		listing, warnings, err := h.listingService.UpdateListing(c.Request.Context(), c.Param("id"), middleware.HostID(c), &draft)
		if err != nil {
			respondError(c, err, "Failed to update listing")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":  "Listing updated",
			"listing":  listing,
			"warnings": warnings,
		})
	}
}

// Publish handles PATCH /v1/{kind}/:id/publish. A listing that fails the
// gate gets 422 with every missing field.
func (h *ListingHandler) Publish(kind models.ListingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := h.hostListingOfKind(c, kind); !ok {
			return
		}
		listing, result, err := h.listingService.PublishListing(c.Request.Context(), c.Param("id"), middleware.HostID(c))
		if err != nil {
			respondError(c, err, "Failed to publish listing")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":  "Listing published",
			"listing":  listing,
			"warnings": result.Warnings,
		})
	}
}

// Cancel handles PATCH /v1/{kind}/:id/cancel.
func (h *ListingHandler) Cancel(kind models.ListingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := h.hostListingOfKind(c, kind); !ok {
			return
		}
		listing, err := h.listingService.CancelListing(c.Request.Context(), c.Param("id"), middleware.HostID(c))
		if err != nil {
			respondError(c, err, "Failed to cancel listing")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Listing cancelled", "listing": listing})
	}
}

// PresignImage handles POST /v1/{kind}/:id/images/presign.
func (h *ListingHandler) PresignImage(kind models.ListingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.storageService == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Image uploads are not configured"})
			return
		}
		var req PresignRequest
		if !bindJSON(c, &req) {
			return
		}

		listing, ok := h.hostListingOfKind(c, kind)
		if !ok {
			return
		}
		if listing.Status == models.StatusCancelled {
			respondError(c, services.ErrListingCancelled, "")
			return
		}

		url, key, err := h.storageService.GeneratePresignedPutURL(c.Request.Context(), middleware.HostID(c), c.Param("id"), req.Filename, req.ContentType)
		if err != nil {
			respondError(c, err, "Failed to generate upload URL")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":   "Upload URL generated",
			"uploadUrl": url,
			"key":       key,
			"imageUrl":  h.storageService.PublicURL(key),
		})
	}
}

// ConfirmImage handles POST /v1/{kind}/:id/images once the client has
// uploaded to the presigned URL.
func (h *ListingHandler) ConfirmImage(kind models.ListingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ConfirmImageRequest
		if !bindJSON(c, &req) {
			return
		}
		if _, ok := h.hostListingOfKind(c, kind); !ok {
			return
		}
		if err := h.listingService.ConfirmImage(c.Request.Context(), c.Param("id"), middleware.HostID(c), req.Key); err != nil {
			respondError(c, err, "Failed to attach image")
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"message": "Image accepted", "key": req.Key})
	}
}

// HostListings handles GET /v1/host/listings, optionally filtered by ?kind=.
func (h *ListingHandler) HostListings(c *gin.Context) {
	var kind models.ListingKind
	if kindStr := c.Query("kind"); kindStr != "" {
		var ok bool
		if kind, ok = parseKind(kindStr); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown listing kind"})
			return
		}
	}

	listings, err := h.listingService.ListHostListings(c.Request.Context(), middleware.HostID(c), kind)
	if err != nil {
		respondError(c, err, "Failed to list listings")
		return
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}
