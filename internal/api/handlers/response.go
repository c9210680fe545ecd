package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Priyanka03s/travel-sid-sub002/internal/models"
	"github.com/Priyanka03s/travel-sid-sub002/internal/publish"
	"github.com/Priyanka03s/travel-sid-sub002/internal/services"
)

var validate = validator.New()

// kindSegments maps URL path segments to listing kinds.
var kindSegments = map[string]models.ListingKind{
	"trips":             models.KindTrip,
	"events":            models.KindEvent,
	"adventure-schools": models.KindAdventureSchool,
}

// KindSegments returns the path segment used for each listing kind.
func KindSegments() map[string]models.ListingKind {
	out := make(map[string]models.ListingKind, len(kindSegments))
	for seg, kind := range kindSegments {
		out[seg] = kind
	}
	return out
}

// parseKind accepts either a path segment ("adventure-schools") or a stored
// kind value ("adventure_school").
func parseKind(s string) (models.ListingKind, bool) {
	if kind, ok := kindSegments[s]; ok {
		return kind, true
	}
	kind := models.ListingKind(s)
	return kind, kind.Valid()
}

// bindJSON decodes the request body and validates it with the struct's
// validate tags.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			problems := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				problems = append(problems, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request: " + strings.Join(problems, "; "), "problems": problems})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request: " + err.Error()})
		return false
	}
	return true
}

// respondError maps service errors to HTTP responses. Unknown errors are
// logged and reported as 500 with the fallback message.
func respondError(c *gin.Context, err error, fallback string) {
	var validationErr *services.ValidationError
	var notReadyErr *services.NotReadyError
	switch {
	case errors.As(err, &notReadyErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message":       notReadyErr.Error(),
			"missingFields": notReadyErr.Result.MissingFields,
			"warnings":      notReadyErr.Result.Warnings,
		})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": validationErr.Error(), "problems": validationErr.Problems})
	case errors.Is(err, services.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"message": "You do not own this listing"})
	case errors.Is(err, services.ErrListingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Listing not found"})
	case errors.Is(err, services.ErrAlreadyPublished),
		errors.Is(err, services.ErrListingCancelled),
		errors.Is(err, publish.ErrNotDraft):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	default:
		_ = c.Error(err)
		log.Printf("ERROR %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": fallback})
	}
}
