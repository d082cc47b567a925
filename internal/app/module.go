package app

import "github.com/gin-gonic/gin"

// Module defines the contract for a self-registering business module.
// api is the versioned JSON group (/api/v1); public is the unversioned /api
// group kept for embeds that cannot follow version changes.
type Module interface {
	RegisterRoutes(api *gin.RouterGroup, public *gin.RouterGroup)
}
