package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "Registration request", "username", req.Username)

	_, err := s.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.respondServiceError(c, err, "User", req.Username)
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "username", req.Username)
	c.JSON(http.StatusOK, gin.H{"message": "User registered"})
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.respondServiceError(c, err, "User", req.Username)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token:     result.Token,
		ExpiresIn: result.ExpiresAt.UnixMilli(),
		Username:  result.Username,
	})
}
