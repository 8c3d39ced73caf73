package admin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ethograph/ethograph/internal/config"
	"github.com/ethograph/ethograph/internal/database"
	"github.com/ethograph/ethograph/internal/domain"
	"github.com/ethograph/ethograph/internal/rdf"
	"github.com/ethograph/ethograph/internal/repository"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// OntologyCmd returns the ontology command group
func OntologyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ontology",
		Short: "Manage stored ontologies",
	}

	importCmd := &cobra.Command{
		Use:   "import <domain> <file>",
		Short: "Import a Turtle file as an ontology, creating it or recording a new version",
		Args:  cobra.ExactArgs(2),
		RunE:  runOntologyImport,
	}
	importCmd.Flags().String("base-uri", "", "Base URI of the ontology namespace")
	importCmd.Flags().Bool("base", false, "Mark the ontology as a base (core) ontology")
	importCmd.Flags().StringSlice("imports", nil, "Domain ids this ontology imports")
	importCmd.Flags().StringP("message", "m", "imported from file", "Version commit message")

	cmd.AddCommand(importCmd)
	return cmd
}

func runOntologyImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	domainID, path := args[0], args[1]

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading ontology file: %w", err)
	}

	baseURI, _ := cmd.Flags().GetString("base-uri")

	// Reject content the server would later fail to parse; a stored but
	// unparseable ontology silently serves an empty graph.
	if err := rdf.NewGraph(baseURI).Parse(string(content)); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeParseFailure,
			fmt.Sprintf("ontology file %q is not valid Turtle", path), err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := database.NewPoolFromURL(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	repo := repository.NewOntologyRepository(pool)

	isBase, _ := cmd.Flags().GetBool("base")
	imports, _ := cmd.Flags().GetStringSlice("imports")
	message, _ := cmd.Flags().GetString("message")

	_, err = repo.GetByDomain(ctx, domainID)
	switch {
	case err == nil:
		v, err := repo.UpdateContent(ctx, domainID, string(content), message)
		if err != nil {
			return fmt.Errorf("updating ontology %q: %w", domainID, err)
		}
		cmd.Printf("ontology %q updated (version %d)\n", domainID, v.VersionNumber)
	case errors.Is(err, domain.ErrOntologyNotFound):
		now := time.Now().UTC()
		o := &domain.OntologyGraph{
			ID:         uuid.NewString(),
			DomainID:   domainID,
			Content:    string(content),
			BaseURI:    baseURI,
			IsBase:     isBase,
			IsEditable: true,
			Imports:    imports,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := repo.Create(ctx, o); err != nil {
			return fmt.Errorf("creating ontology %q: %w", domainID, err)
		}
		cmd.Printf("ontology %q created\n", domainID)
	default:
		return fmt.Errorf("looking up ontology %q: %w", domainID, err)
	}

	return nil
}
