// Command seed loads a catalog export into the DynamoDB table. Input is a
// JSON file with datasets and relations, typically produced by the ingestion
// pipeline.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"datascout-backend/domain/core/entities"
	"datascout-backend/domain/core/valueobjects"
	"datascout-backend/infrastructure/config"
	"datascout-backend/infrastructure/persistence/dynamodb"
)

type catalogFile struct {
	Datasets  []catalogDataset  `json:"datasets"`
	Relations []catalogRelation `json:"relations"`
}

type catalogDataset struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Keywords      []string `json:"keywords"`
	Domains       []string `json:"domains"`
	Tags          []string `json:"tags"`
	AgencyID      string   `json:"agency_id"`
	AgencyCode    string   `json:"agency_code"`
	AgencyName    string   `json:"agency_name"`
	Accessibility string   `json:"accessibility"`
	Incoming      int      `json:"incoming_relations"`
	Outgoing      int      `json:"outgoing_relations"`
	UpdatedAt     string   `json:"updated_at"`
}

type catalogRelation struct {
	ID          string `json:"id"`
	SourceID    string `json:"source_id"`
	TargetID    string `json:"target_id"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

func main() {
	file := flag.String("file", "catalog.json", "catalog export to load")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	store := dynamodb.NewDatasetStore(
		awsdynamodb.NewFromConfig(awsCfg),
		cfg.DynamoDBTable,
		cfg.AgencyIndex,
		cfg.UpdatedIndex,
		logger,
	)

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read catalog file: %v", err)
	}

	var catalog catalogFile
	if err := json.Unmarshal(raw, &catalog); err != nil {
		log.Fatalf("Failed to parse catalog file: %v", err)
	}

	for _, cd := range catalog.Datasets {
		var id valueobjects.DatasetID
		if strings.TrimSpace(cd.ID) == "" {
			// Freshly ingested datasets arrive without an identifier.
			id = valueobjects.NewDatasetID()
			logger.Info("Minted ID for dataset without one",
				zap.String("name", cd.Name),
				zap.String("id", id.String()),
			)
		} else {
			var err error
			id, err = valueobjects.NewDatasetIDFromString(cd.ID)
			if err != nil {
				logger.Warn("Skipping dataset with invalid ID",
					zap.String("id", cd.ID),
					zap.Error(err),
				)
				continue
			}
		}

		updatedAt, err := time.Parse(time.RFC3339, cd.UpdatedAt)
		if err != nil {
			updatedAt = time.Now()
		}

		dataset := entities.ReconstructDataset(
			id,
			cd.Name,
			cd.Description,
			cd.Keywords,
			cd.Domains,
			cd.Tags,
			entities.Agency{ID: cd.AgencyID, Code: cd.AgencyCode, Name: cd.AgencyName},
			entities.Accessibility(cd.Accessibility),
			cd.Incoming,
			cd.Outgoing,
			updatedAt,
		)

		if err := store.SaveDataset(ctx, dataset); err != nil {
			log.Fatalf("Failed to save dataset %s: %v", cd.ID, err)
		}
	}

	for _, cr := range catalog.Relations {
		sourceID, err := valueobjects.NewDatasetIDFromString(cr.SourceID)
		if err != nil {
			logger.Warn("Skipping relation with invalid source",
				zap.String("relationID", cr.ID),
				zap.Error(err),
			)
			continue
		}
		targetID, err := valueobjects.NewDatasetIDFromString(cr.TargetID)
		if err != nil {
			logger.Warn("Skipping relation with invalid target",
				zap.String("relationID", cr.ID),
				zap.Error(err),
			)
			continue
		}

		rel := &entities.DatasetRelation{
			ID:          cr.ID,
			SourceID:    sourceID,
			TargetID:    targetID,
			Kind:        entities.RelationKind(cr.Kind),
			Description: cr.Description,
		}
		if err := store.SaveRelation(ctx, rel); err != nil {
			log.Fatalf("Failed to save relation %s: %v", cr.ID, err)
		}
	}

	logger.Info("Catalog loaded",
		zap.Int("datasets", len(catalog.Datasets)),
		zap.Int("relations", len(catalog.Relations)),
	)
}
