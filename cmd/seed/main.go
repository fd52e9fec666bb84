package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cadportal/internal/config"
	"cadportal/internal/database"
	"cadportal/internal/domain/account"
	"cadportal/internal/domain/admission"
	"cadportal/internal/domain/project"
	"cadportal/internal/pkg/jwt"
	"cadportal/internal/server"
)

func main() {
	reset := flag.Bool("reset", false, "delete existing rows before seeding")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.Connect(cfg.DatabaseURL, database.Options{}, logger)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db, server.Models()...); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	if *reset {
		log.Println("Cleaning old data...")
		for _, table := range []string{"files", "project_assignments", "projects", "workers", "customers"} {
			db.Exec("DELETE FROM " + table)
		}
	}

	now := time.Now().UTC()

	log.Println("Creating customers...")
	customers := []account.Customer{
		{ID: "cust-free", Email: "free@cadportal.dev", Tier: admission.TierFree},
		{ID: "cust-parttime", Email: "parttime@cadportal.dev", Tier: admission.TierPartTime},
		{ID: "cust-fulltime", Email: "fulltime@cadportal.dev", Tier: admission.TierFullTime},
		{ID: "cust-team", Email: "team@cadportal.dev", Tier: admission.TierTeam},
	}
	for i := range customers {
		customers[i].CreatedAt = now
		upsert(db, &customers[i])
	}

	log.Println("Creating workers...")
	workers := []account.Worker{
		{ID: "worker-1", Email: "designer1@cadportal.dev", Bio: "SolidWorks assemblies", MaxProjects: 5},
		{ID: "worker-2", Email: "designer2@cadportal.dev", Bio: "Sheet metal and drawings", MaxProjects: 3},
	}
	for i := range workers {
		workers[i].AvailabilityStatus = account.AvailabilityAvailable
		workers[i].CreatedAt = now
		upsert(db, &workers[i])
	}

	log.Println("Creating projects...")
	var projects []project.Project
	for _, c := range customers {
		p := project.Project{
			ID:         uuid.NewString(),
			Name:       fmt.Sprintf("Demo project (%s)", c.Tier),
			CustomerID: c.ID,
			Status:     project.StatusActive,
			CreatedAt:  now,
		}
		upsert(db, &p)
		projects = append(projects, p)
	}

	upsert(db, &project.Assignment{
		ID:         uuid.NewString(),
		ProjectID:  projects[0].ID,
		WorkerID:   workers[0].ID,
		AssignedBy: "admin",
		Status:     project.AssignmentAssigned,
		CreatedAt:  now,
	})

	tokens := jwt.New(cfg.JWTSecret, 30*24*time.Hour)
	fmt.Println()
	fmt.Println("Session tokens (valid 30 days):")
	printToken(tokens, "admin", string(account.RoleAdmin))
	for _, c := range customers {
		printToken(tokens, c.ID, string(account.RoleCustomer))
	}
	for _, w := range workers {
		printToken(tokens, w.ID, string(account.RoleWorker))
	}
	fmt.Println()
	for _, p := range projects {
		fmt.Printf("project %s  owner=%s  %q\n", p.ID, p.CustomerID, p.Name)
	}

	log.Println("Seed complete")
}

func upsert(db *gorm.DB, v any) {
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(v).Error; err != nil {
		log.Fatalf("seed %T: %v", v, err)
	}
}

func printToken(tokens *jwt.Service, userID, role string) {
	tok, err := tokens.GenerateToken(userID, role)
	if err != nil {
		log.Fatalf("token for %s: %v", userID, err)
	}
	fmt.Printf("%-9s %-14s %s\n", role, userID, tok)
}
