package internal

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// There is no public signup: the roster is closed and players are created
// by an admin (see AdminCreatePlayer).

func Login(db *pgxpool.Pool, secret string, cookieSecure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "bad json"})
			return
		}

		var p Profile
		var passHash string
		err := db.QueryRow(context.Background(),
			"SELECT id, username, display_name, dorsal, email, role, pass_hash FROM profiles WHERE username=$1",
			req.Username,
		).Scan(&p.ID, &p.Username, &p.DisplayName, &p.Dorsal, &p.Email, &p.Role, &passHash)
		if err != nil {
			c.JSON(401, gin.H{"error": "invalid credentials"})
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(passHash), []byte(req.Password)) != nil {
			c.JSON(401, gin.H{"error": "invalid credentials"})
			return
		}

		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
			UserID: p.ID,
			Role:   p.Role,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				Issuer:    "roster-platform",
			},
		})
		s, _ := tok.SignedString([]byte(secret))

		c.SetCookie(cookieName, s, 86400, "/", "", cookieSecure, true)

		logAction(db, &p.ID, "login", "success")
		c.JSON(200, gin.H{"ok": true})
	}
}

func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie(cookieName, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func Me(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uid(c)
		var p Profile
		err := db.QueryRow(context.Background(),
			"SELECT id, username, display_name, dorsal, email, role FROM profiles WHERE id=$1", id,
		).Scan(&p.ID, &p.Username, &p.DisplayName, &p.Dorsal, &p.Email, &p.Role)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		c.JSON(200, p)
	}
}
