package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"streamhub/internal/shared"
)

// browse.go lists the catalog, the same data the login screen's preview
// carousel is fed from.

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the media catalog",
	Long:  `List movies and shows available on the media server.`,
}

var browseMoviesCmd = &cobra.Command{
	Use:   "movies",
	Short: "List all movies",
	RunE: func(cmd *cobra.Command, args []string) error {
		movies, err := app.Client.GetMovies()
		if err != nil {
			return fmt.Errorf("failed to get movie list: %w", err)
		}
		printItems(movies, "movies")
		return nil
	},
}

var browseShowsCmd = &cobra.Command{
	Use:   "shows",
	Short: "List all shows",
	RunE: func(cmd *cobra.Command, args []string) error {
		shows, err := app.Client.GetShows()
		if err != nil {
			return fmt.Errorf("failed to get show list: %w", err)
		}
		printItems(shows, "shows")
		return nil
	},
}

func printItems(items []shared.CatalogItem, what string) {
	if len(items) == 0 {
		fmt.Printf("No %s found.\n", what)
		return
	}

	fmt.Printf("Found %d %s:\n\n", len(items), what)
	for _, item := range items {
		fmt.Printf("ID: %s\n", item.ID)
		fmt.Printf("Name: %s\n", item.Name)
		if item.ProductionYear > 0 {
			fmt.Printf("Year: %d\n", item.ProductionYear)
		}
		fmt.Printf("Maturity: %s\n", item.Maturity())
		if item.RunTimeTicks > 0 {
			fmt.Printf("Run Time: %d min\n", item.RunTimeMinutes())
		}
		fmt.Println(strings.Repeat("-", 50))
	}
}

func init() {
	browseCmd.AddCommand(browseMoviesCmd)
	browseCmd.AddCommand(browseShowsCmd)
}
