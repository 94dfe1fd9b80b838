package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Aguirre-Martin/paradise-point/models"
	"github.com/Aguirre-Martin/paradise-point/storage"
)

// Creates or promotes the back-office admin account.
func main() {
	storage.InitializeDB()

	reader := bufio.NewReader(os.Stdin)

	email := prompt(reader, "Admin email: ")
	name := prompt(reader, "Name: ")
	password := prompt(reader, "Password: ")

	if email == "" || name == "" || password == "" {
		log.Fatal("all fields are required")
	}

	var existing models.User
	result := storage.DB.Where("email = ?", strings.ToLower(email)).Limit(1).Find(&existing)
	if result.Error != nil {
		log.Fatalf("looking up user: %v", result.Error)
	}

	if result.RowsAffected > 0 {
		answer := prompt(reader, fmt.Sprintf("User %s already exists. Promote to admin? (y/n): ", email))
		if strings.ToLower(answer) != "y" {
			fmt.Println("Aborted.")
			return
		}
		if err := storage.DB.Model(&existing).Update("role", models.RoleAdmin).Error; err != nil {
			log.Fatalf("promoting user: %v", err)
		}
		fmt.Println("User promoted to admin.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hashing password: %v", err)
	}

	admin := models.User{
		Name:     name,
		Email:    strings.ToLower(email),
		Password: string(hashed),
		Role:     models.RoleSuperAdmin,
	}
	if err := storage.DB.Create(&admin).Error; err != nil {
		log.Fatalf("creating admin: %v", err)
	}

	fmt.Println("Super admin created successfully.")
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}
