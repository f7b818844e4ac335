package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/mauroere/cafia/internal/auth"
	"github.com/mauroere/cafia/internal/business"
	"github.com/mauroere/cafia/pkg/ctxmanage"
	"github.com/mauroere/cafia/pkg/logkey"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 5 * 1024

// claimsOfRequest pulls the verified claims the authentication middleware
// stored on the context. Aborts with 401 when absent.
func claimsOfRequest(c *gin.Context) (auth.Claims, bool) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return auth.Claims{}, false
	}
	return claims, true
}

// vendorBusiness resolves the caller's business. Vendor routes scope every
// query by the business id this returns, never by raw request input.
func (h *Handler) vendorBusiness(c *gin.Context) (*business.Business, bool) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, ok := claimsOfRequest(c)
	if !ok {
		return nil, false
	}

	biz, err := h.b.GetByOwner(c.Request.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, business.ErrBusinessNotFound) {
			slog.Error("business not found for vendor", slog.String(logkey.TraceID, traceId),
				slog.String(logkey.UserID, claims.Subject))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Business not found"})
			return nil, false
		}
		slog.Error("error resolving vendor business", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": http.StatusText(http.StatusInternalServerError)})
		return nil, false
	}
	return biz, true
}

// bindAndValidate decodes the JSON body into dest and runs struct validation.
func (h *Handler) bindAndValidate(c *gin.Context, dest any) bool {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if c.Request.ContentLength > maxBodyBytes {
		slog.Error("request body limit breached", slog.String(logkey.TraceID, traceId),
			slog.Int64("Size Received", c.Request.ContentLength))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Request body too large."})
		return false
	}

	if err := c.ShouldBindJSON(dest); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return false
	}

	if err := h.validate.Struct(dest); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			vErr := vErrs[0]
			slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			switch vErr.Tag() {
			case "required":
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": vErr.Field() + " value missing"})
			case "min":
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": vErr.Field() + " value is less than " + vErr.Param()})
			default:
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
			}
			return false
		}
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return false
	}
	return true
}
