package main

import (
	"log"
	"net/http"

	"clementus360/day-planner/config"
	"clementus360/day-planner/middleware"
	"clementus360/day-planner/routes"
	"clementus360/day-planner/supabase"
)

func main() {

	config.LoadEnv()
	config.InitLogger()
	supabase.Init()

	mux := http.NewServeMux()
	routes.RegisterAllRoutes(mux)

	handler := middleware.Chain(
		middleware.CORSMiddleware,
		middleware.LoggingMiddleware,
	)(mux)

	log.Println("Server is running on port 8080")
	log.Fatal(http.ListenAndServe(":8080", handler))
}
