// Command vioctl agrupa las tareas operativas: migraciones y emisión de tokens de prueba.
package main

import (
	"os"

	"github.com/Stiven2023/vio-app-sub001/cmd/vioctl/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
