// Copyright 2025 The il-ilce-eslestirme Authors
// SPDX-License-Identifier: Apache-2.0

package enrich

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ealevli/il-ilce-eslestirme/geocode"
	"github.com/ealevli/il-ilce-eslestirme/spatial"
)

// Server exposes the resolver and the distance calculator over a local
// JSON API, for spot checks without building a spreadsheet.
type Server struct {
	geocoder   Geocoder
	calculator Distancer
	addr       string
}

// NewServer creates a Server listening on addr.
func NewServer(geocoder Geocoder, calculator Distancer, addr string) *Server {
	if addr == "" {
		addr = "localhost:8080"
	}

	return &Server{
		geocoder:   geocoder,
		calculator: calculator,
		addr:       addr,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.health)
	r.GET("/api/iller", s.listProvinces)
	r.POST("/api/resolve", s.resolve)
	r.POST("/api/distances", s.distances)
	r.POST("/api/enrich", s.enrich)

	return r
}

// Run blocks serving the API.
func (s *Server) Run() error {
	return s.Router().Run(s.addr)
}

func (s *Server) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listProvinces(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"iller": geocode.Provinces})
}

type resolveRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type resolveResponse struct {
	Il   string `json:"il"`
	Ilce string `json:"ilce"`
}

func (s *Server) resolve(ctx *gin.Context) {
	var req resolveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	resolution, err := s.geocoder.Resolve(ctx.Request.Context(),
		spatial.Point{Lat: req.Lat, Lng: req.Lng})
	if err != nil {
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, resolveResponse{
		Il:   resolution.ProvinceLabel(),
		Ilce: resolution.DistrictLabel(),
	})
}

type distancesRequest struct {
	Case   spatial.Point `json:"case"`
	Dealer spatial.Point `json:"dealer"`
}

type distancesResponse struct {
	StraightLineKm *float64 `json:"lineer_mesafe_km"`
	RoadKm         *float64 `json:"reel_yol_mesafesi_km"`
}

func (s *Server) distances(ctx *gin.Context) {
	var req distancesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	result := s.calculator.Distances(ctx.Request.Context(), req.Case, req.Dealer)

	ctx.JSON(http.StatusOK, distancesResponse{
		StraightLineKm: result.StraightLineKm,
		RoadKm:         result.RoadKm,
	})
}

type enrichResponse struct {
	resolveResponse
	distancesResponse
}

func (s *Server) enrich(ctx *gin.Context) {
	var req distancesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	resolution, err := s.geocoder.Resolve(ctx.Request.Context(), req.Case)
	if err != nil {
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})

		return
	}

	result := s.calculator.Distances(ctx.Request.Context(), req.Case, req.Dealer)

	ctx.JSON(http.StatusOK, enrichResponse{
		resolveResponse: resolveResponse{
			Il:   resolution.ProvinceLabel(),
			Ilce: resolution.DistrictLabel(),
		},
		distancesResponse: distancesResponse{
			StraightLineKm: result.StraightLineKm,
			RoadKm:         result.RoadKm,
		},
	})
}
