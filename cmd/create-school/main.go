package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/schoolhub/schoolhub-backend/internal/config"
	"github.com/schoolhub/schoolhub-backend/internal/database"
	"github.com/schoolhub/schoolhub-backend/internal/logger"
	"github.com/schoolhub/schoolhub-backend/internal/mailer"
	"github.com/schoolhub/schoolhub-backend/internal/model"
	"github.com/schoolhub/schoolhub-backend/internal/repository"
	"github.com/schoolhub/schoolhub-backend/internal/service"
	"github.com/schoolhub/schoolhub-backend/internal/session"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	// Sessions and mail are only needed to satisfy the constructor; this
	// command never hands out a token.
	userRepo := repository.NewUserRepository(pool)
	schoolRepo := repository.NewSchoolRepository(pool)
	authService := service.NewAuthService(cfg, userRepo, schoolRepo,
		session.NewMemoryStore(), mailer.NewConsoleMailer(log), log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Register New School ===")

	schoolName := prompt(reader, "School Name")
	if schoolName == "" {
		fmt.Println("Error: School name is required")
		return
	}

	schoolEmail := prompt(reader, "School Email")
	if schoolEmail == "" {
		fmt.Println("Error: School email is required")
		return
	}

	schoolAddress := prompt(reader, "School Address")
	schoolPhone := prompt(reader, "School Phone")

	subdomain := strings.ToLower(prompt(reader, "Subdomain"))
	if subdomain == "" {
		fmt.Println("Error: Subdomain is required")
		return
	}

	fmt.Println("\n--- Proprietor Account ---")
	firstName := prompt(reader, "First Name")
	lastName := prompt(reader, "Last Name")
	email := prompt(reader, "Email")
	if firstName == "" || lastName == "" || email == "" {
		fmt.Println("Error: Proprietor name and email are required")
		return
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 8 {
		fmt.Println("Error: Password must be at least 8 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	school, user, _, err := authService.RegisterSchool(ctx, &model.SchoolRegistrationData{
		FirstName:     firstName,
		LastName:      lastName,
		Email:         email,
		Password:      password,
		SchoolName:    schoolName,
		SchoolAddress: schoolAddress,
		SchoolPhone:   schoolPhone,
		SchoolEmail:   schoolEmail,
		Subdomain:     subdomain,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register school")
	}

	fmt.Printf("\nSuccess! School '%s' created with code %s\n", school.Name, school.Code)
	fmt.Printf("Proprietor '%s %s' (%s) can now sign in at /auth/login/%s\n",
		user.FirstName, user.LastName, user.Email, school.Code)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Printf("Enter %s: ", label)
	value, _ := reader.ReadString('\n')
	return strings.TrimSpace(value)
}
