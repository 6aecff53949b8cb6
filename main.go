package main

import (
	"log"

	"github.com/Kariqs/fishing-store-api/initializers"
	"github.com/Kariqs/fishing-store-api/routes"
)

func init() {
	initializers.LoadEnv()
	initializers.ConnectToDB()
	if err := initializers.SyncDatabase(); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}
	if err := initializers.SeedAdmin(); err != nil {
		log.Fatal("Failed to seed admin account: ", err)
	}
	initializers.InitServices()
}

func main() {
	server := routes.NewServer()
	if err := server.Run(":" + initializers.GetEnv("PORT", "8080")); err != nil {
		log.Fatal(err)
	}
}
