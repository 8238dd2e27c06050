// Command seed populates the database with demo data for local development.
package main

import (
	"flag"
	"log"

	"plume/internal/config"
	"plume/internal/database"
	"plume/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "number of users to create")
	numWorks := flag.Int("works", 30, "number of literary works to create")
	numWorkshops := flag.Int("workshops", 3, "number of workshops to create")
	numGroups := flag.Int("groups", 3, "number of groups to create")
	clean := flag.Bool("clean", false, "delete existing data first")
	fixtures := flag.String("fixtures", "", "optional YAML fixtures file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = seed.Run(db, seed.Options{
		NumUsers:     *numUsers,
		NumWorks:     *numWorks,
		NumWorkshops: *numWorkshops,
		NumGroups:    *numGroups,
		ShouldClean:  *clean,
		FixturesPath: *fixtures,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
