// Command buscar is a small terminal frontend for the search service. Typed
// text becomes a debounced search, ":p <provincia>" sets the province filter,
// ":m" loads the next page and ":q" quits.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/buscador-establecimientos/backend/internal/client"
	"github.com/buscador-establecimientos/backend/internal/domain/entities"
)

type terminalRenderer struct{}

func (terminalRenderer) Render(cmd client.DisplayCommand) {
	switch cmd.Kind {
	case client.CommandShowError:
		fmt.Println("algo ha fallado, vuelve a intentarlo")
	case client.CommandShowEmpty:
		fmt.Println("sin resultados")
	case client.CommandReplace:
		fmt.Println("---")
		printRows(cmd.Establecimientos)
	case client.CommandAppend:
		printRows(cmd.Establecimientos)
	}
}

func printRows(rows []entities.Establecimiento) {
	for _, e := range rows {
		fmt.Printf("%6d  %-40s  %s (%s)\n", e.ID, e.Nombre, e.Direccion, e.Provincia)
	}
}

func main() {
	baseURL := flag.String("url", "http://localhost:8000", "base URL of the search service")
	flag.Parse()

	api := client.NewAPIClient(*baseURL)

	var session *client.Session
	session = client.NewSession(terminalRenderer{}, client.NewSingleSlotTimer(), 25, func(req client.Request) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			page, err := api.Search(ctx, req.Search, req.Provincia, req.Skip, req.Limit)
			if err != nil {
				session.HandleFailure(req, err)
				return
			}
			session.HandleSuccess(req, page)
		}()
	})

	if provincias, err := api.Provincias(context.Background()); err == nil {
		fmt.Printf("provincias: %s\n", strings.Join(provincias, ", "))
	}
	fmt.Println("escribe para buscar, :p <provincia> filtra, :m carga más, :q sale")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == ":q":
			return
		case line == ":m":
			session.LoadMore()
		case strings.HasPrefix(line, ":p"):
			session.SetProvincia(strings.TrimSpace(strings.TrimPrefix(line, ":p")))
		default:
			session.SetSearch(line)
		}
	}
}
