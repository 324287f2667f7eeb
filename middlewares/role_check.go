package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-supplier-backend/utils"
)

func RoleCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.Param("role")
		userRole, exists := c.Get("role")

		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		// Validasi role; admin boleh membuka dashboard role lain
		switch role {
		case "admin":
			if userRole != "admin" {
				utils.RespondError(c, http.StatusForbidden, fmt.Errorf("admin access required"))
				c.Abort()
				return
			}
		case "cashier":
			if userRole != "cashier" && userRole != "admin" {
				utils.RespondError(c, http.StatusForbidden, fmt.Errorf("cashier access required"))
				c.Abort()
				return
			}
		case "food_incharge":
			if userRole != "food_incharge" && userRole != "admin" {
				utils.RespondError(c, http.StatusForbidden, fmt.Errorf("food incharge access required"))
				c.Abort()
				return
			}
		case "supplier":
			if userRole != "supplier" && userRole != "admin" {
				utils.RespondError(c, http.StatusForbidden, fmt.Errorf("supplier access required"))
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
