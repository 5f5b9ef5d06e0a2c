// devtoken emite un JWT firmado con JWT_SECRET para probar la API en local.
//
// Uso: go run ./cmd/devtoken -company <uuid> [-role admin|vendedor|bodeguero] [-user <uuid>]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jhoicas/Ventas-api/pkg/config"
	"github.com/jhoicas/Ventas-api/pkg/jwt"
)

func main() {
	company := flag.String("company", "", "ID de la empresa (requerido)")
	role := flag.String("role", jwt.RoleAdmin, "rol del usuario")
	user := flag.String("user", "", "ID del usuario; vacío genera uno nuevo")
	flag.Parse()

	if *company == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *user == "" {
		*user = uuid.NewString()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	token, err := jwt.Generate(cfg.JWT.Secret, *user, *company, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
