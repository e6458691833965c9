package dynamodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"datascout-backend/application/ports"
	"datascout-backend/domain/core/entities"
	"datascout-backend/domain/core/valueobjects"
	pkgerrors "datascout-backend/pkg/errors"
)

// DatasetStore implements ports.DatasetStore against a single DynamoDB table.
//
// Key layout:
//
//	PK=DATASET#<id> SK=METADATA           dataset metadata
//	PK=DATASET#<id> SK=REL#OUT#<relID>    relation originating at <id>
//	PK=DATASET#<id> SK=REL#IN#<relID>     relation targeting <id>
//
// Relations are dual-written under both endpoints' partitions so one Query
// per dataset returns its full neighbourhood. GSI1 (AgencyIndex) keys on
// AGENCY#<agencyID>, GSI2 (UpdatedIndex) keys on a constant catalog partition
// sorted by update timestamp.
type DatasetStore struct {
	client       *dynamodb.Client
	tableName    string
	agencyIndex  string
	updatedIndex string
	logger       *zap.Logger
}

// NewDatasetStore creates a new DynamoDB-backed dataset store
func NewDatasetStore(client *dynamodb.Client, tableName, agencyIndex, updatedIndex string, logger *zap.Logger) *DatasetStore {
	return &DatasetStore{
		client:       client,
		tableName:    tableName,
		agencyIndex:  agencyIndex,
		updatedIndex: updatedIndex,
		logger:       logger,
	}
}

// datasetItem represents the DynamoDB item structure for a dataset
type datasetItem struct {
	PK                string   `dynamodbav:"PK"`
	SK                string   `dynamodbav:"SK"`
	GSI1PK            string   `dynamodbav:"GSI1PK,omitempty"` // AGENCY#<agencyID>
	GSI1SK            string   `dynamodbav:"GSI1SK,omitempty"` // DATASET#<id>
	GSI2PK            string   `dynamodbav:"GSI2PK,omitempty"` // constant CATALOG partition
	GSI2SK            string   `dynamodbav:"GSI2SK,omitempty"` // UpdatedAt, RFC3339 sorts lexically
	EntityType        string   `dynamodbav:"EntityType"`
	DatasetID         string   `dynamodbav:"DatasetID"`
	Name              string   `dynamodbav:"Name"`
	Description       string   `dynamodbav:"Description"`
	Keywords          []string `dynamodbav:"Keywords,omitempty"`
	Domains           []string `dynamodbav:"Domains,omitempty"`
	Tags              []string `dynamodbav:"Tags,omitempty"`
	AgencyID          string   `dynamodbav:"AgencyID"`
	AgencyCode        string   `dynamodbav:"AgencyCode"`
	AgencyName        string   `dynamodbav:"AgencyName"`
	Accessibility     string   `dynamodbav:"Accessibility"`
	IncomingRelations int      `dynamodbav:"IncomingRelations"`
	OutgoingRelations int      `dynamodbav:"OutgoingRelations"`
	SearchText        string   `dynamodbav:"SearchText"` // lowercased name+description+keywords+tags
	UpdatedAt         string   `dynamodbav:"UpdatedAt"`
}

// relationItem represents the DynamoDB item structure for a relation
type relationItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	EntityType  string `dynamodbav:"EntityType"`
	RelationID  string `dynamodbav:"RelationID"`
	SourceID    string `dynamodbav:"SourceID"`
	TargetID    string `dynamodbav:"TargetID"`
	Kind        string `dynamodbav:"Kind"`
	Description string `dynamodbav:"Description"`
}

const (
	entityTypeDataset  = "DATASET"
	entityTypeRelation = "RELATION"
	catalogPartition   = "CATALOG"
	metadataSK         = "METADATA"
)

func datasetPK(id string) string { return fmt.Sprintf("DATASET#%s", id) }
func agencyPK(id string) string  { return fmt.Sprintf("AGENCY#%s", id) }

// FindByID retrieves a single dataset by its identifier
func (s *DatasetStore) FindByID(ctx context.Context, id valueobjects.DatasetID) (*entities.Dataset, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: datasetPK(id.String())},
			"SK": &types.AttributeValueMemberS{Value: metadataSK},
		},
	}

	result, err := s.client.GetItem(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("FindByID", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("dataset %s", id.String()))
	}

	var item datasetItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("FindByID", err)
	}

	return s.toDataset(item), nil
}

// FindByTextMatch scans the catalog for datasets whose searchable text
// contains any of the given terms. Scan is acceptable here: the catalog is
// small (thousands of items) and candidates are re-ranked in memory anyway.
func (s *DatasetStore) FindByTextMatch(ctx context.Context, terms []string, filter ports.SearchFilter) ([]*entities.Dataset, error) {
	if len(terms) == 0 {
		return []*entities.Dataset{}, nil
	}

	cond := expression.Name("EntityType").Equal(expression.Value(entityTypeDataset))

	var termCond expression.ConditionBuilder
	usable := 0
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		c := expression.Name("SearchText").Contains(term)
		if usable == 0 {
			termCond = c
		} else {
			termCond = termCond.Or(c)
		}
		usable++
	}
	// All terms blank leaves termCond unset; building with it would fail, and
	// a blank query matches nothing anyway.
	if usable == 0 {
		return []*entities.Dataset{}, nil
	}
	cond = cond.And(termCond)

	if filter.Domain != "" {
		cond = cond.And(expression.Name("Domains").Contains(filter.Domain))
	}
	if filter.AgencyID != "" {
		cond = cond.And(expression.Name("AgencyID").Equal(expression.Value(filter.AgencyID)))
	}

	return s.scan(ctx, "FindByTextMatch", cond, filter.Limit)
}

// FindByDomain returns datasets tagged with the given domain
func (s *DatasetStore) FindByDomain(ctx context.Context, domain string, excludeID valueobjects.DatasetID, limit int) ([]*entities.Dataset, error) {
	cond := expression.Name("EntityType").Equal(expression.Value(entityTypeDataset)).
		And(expression.Name("Domains").Contains(domain))
	if !excludeID.IsZero() {
		cond = cond.And(expression.Name("DatasetID").NotEqual(expression.Value(excludeID.String())))
	}

	return s.scan(ctx, "FindByDomain", cond, limit)
}

// FindByAgency returns datasets published by the given agency via GSI1
func (s *DatasetStore) FindByAgency(ctx context.Context, agencyID string, excludeID valueobjects.DatasetID, limit int) ([]*entities.Dataset, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(agencyPK(agencyID)))

	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if !excludeID.IsZero() {
		builder = builder.WithFilter(
			expression.Name("DatasetID").NotEqual(expression.Value(excludeID.String())),
		)
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("FindByAgency", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		IndexName:                 aws.String(s.agencyIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	result, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("FindByAgency", err)
	}

	return s.toDatasets(result.Items, limit), nil
}

// FindByKeywords returns datasets whose keyword set intersects the given
// keywords (OR semantics)
func (s *DatasetStore) FindByKeywords(ctx context.Context, keywords []string, limit int) ([]*entities.Dataset, error) {
	if len(keywords) == 0 {
		return []*entities.Dataset{}, nil
	}

	var kwCond expression.ConditionBuilder
	for i, kw := range keywords {
		c := expression.Name("Keywords").Contains(strings.ToLower(kw))
		if i == 0 {
			kwCond = c
		} else {
			kwCond = kwCond.Or(c)
		}
	}
	cond := expression.Name("EntityType").Equal(expression.Value(entityTypeDataset)).And(kwCond)

	return s.scan(ctx, "FindByKeywords", cond, limit)
}

// FindAPIAccessible returns datasets served through a live API
func (s *DatasetStore) FindAPIAccessible(ctx context.Context, limit int) ([]*entities.Dataset, error) {
	cond := expression.Name("EntityType").Equal(expression.Value(entityTypeDataset)).
		And(expression.Name("Accessibility").Equal(expression.Value(string(entities.AccessAPI))))

	return s.scan(ctx, "FindAPIAccessible", cond, limit)
}

// FindRecentlyUpdated returns the most recently updated datasets via GSI2,
// newest first
func (s *DatasetStore) FindRecentlyUpdated(ctx context.Context, limit int) ([]*entities.Dataset, error) {
	keyCond := expression.Key("GSI2PK").Equal(expression.Value(catalogPartition))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("FindRecentlyUpdated", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		IndexName:                 aws.String(s.updatedIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	result, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("FindRecentlyUpdated", err)
	}

	return s.toDatasets(result.Items, limit), nil
}

// GetRelations returns every relation touching the dataset, both directions
func (s *DatasetStore) GetRelations(ctx context.Context, id valueobjects.DatasetID) ([]*entities.DatasetRelation, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(datasetPK(id.String()))).
		And(expression.Key("SK").BeginsWith("REL#"))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("GetRelations", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	result, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("GetRelations", err)
	}

	relations := make([]*entities.DatasetRelation, 0, len(result.Items))
	for _, raw := range result.Items {
		var item relationItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("Skipping malformed relation item",
				zap.String("datasetID", id.String()),
				zap.Error(err),
			)
			continue
		}
		relations = append(relations, &entities.DatasetRelation{
			ID:          item.RelationID,
			SourceID:    valueobjects.MustDatasetID(item.SourceID),
			TargetID:    valueobjects.MustDatasetID(item.TargetID),
			Kind:        entities.RelationKind(item.Kind),
			Description: item.Description,
		})
	}

	return relations, nil
}

// SaveDataset writes a dataset's metadata item. Used by ingestion tooling.
func (s *DatasetStore) SaveDataset(ctx context.Context, d *entities.Dataset) error {
	agency := d.Agency()
	item := datasetItem{
		PK:                datasetPK(d.ID().String()),
		SK:                metadataSK,
		GSI2PK:            catalogPartition,
		GSI2SK:            d.UpdatedAt().Format(time.RFC3339),
		EntityType:        entityTypeDataset,
		DatasetID:         d.ID().String(),
		Name:              d.Name(),
		Description:       d.Description(),
		Keywords:          d.Keywords(),
		Domains:           d.Domains(),
		Tags:              d.Tags(),
		AgencyID:          agency.ID,
		AgencyCode:        agency.Code,
		AgencyName:        agency.Name,
		Accessibility:     string(d.Accessibility()),
		IncomingRelations: d.IncomingRelations(),
		OutgoingRelations: d.OutgoingRelations(),
		SearchText:        buildSearchText(d),
		UpdatedAt:         d.UpdatedAt().Format(time.RFC3339),
	}
	if agency.ID != "" {
		item.GSI1PK = agencyPK(agency.ID)
		item.GSI1SK = datasetPK(d.ID().String())
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewDatabaseError("SaveDataset", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("SaveDataset", err)
	}
	return nil
}

// SaveRelation dual-writes a relation under both endpoints' partitions so
// GetRelations needs only one Query per dataset.
func (s *DatasetStore) SaveRelation(ctx context.Context, rel *entities.DatasetRelation) error {
	write := func(pk, sk string) error {
		item := relationItem{
			PK:          pk,
			SK:          sk,
			EntityType:  entityTypeRelation,
			RelationID:  rel.ID,
			SourceID:    rel.SourceID.String(),
			TargetID:    rel.TargetID.String(),
			Kind:        string(rel.Kind),
			Description: rel.Description,
		}
		av, err := attributevalue.MarshalMap(item)
		if err != nil {
			return err
		}
		_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(s.tableName),
			Item:      av,
		})
		return err
	}

	if err := write(datasetPK(rel.SourceID.String()), fmt.Sprintf("REL#OUT#%s", rel.ID)); err != nil {
		return pkgerrors.NewDatabaseError("SaveRelation", err)
	}
	if err := write(datasetPK(rel.TargetID.String()), fmt.Sprintf("REL#IN#%s", rel.ID)); err != nil {
		return pkgerrors.NewDatabaseError("SaveRelation", err)
	}
	return nil
}

// scan runs a filtered catalog scan and unmarshals the matches
func (s *DatasetStore) scan(ctx context.Context, op string, cond expression.ConditionBuilder, limit int) ([]*entities.Dataset, error) {
	expr, err := expression.NewBuilder().WithFilter(cond).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError(op, err)
	}

	datasets := make([]*entities.Dataset, 0)
	var startKey map[string]types.AttributeValue

	for {
		input := &dynamodb.ScanInput{
			TableName:                 aws.String(s.tableName),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		}

		result, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError(op, err)
		}

		datasets = append(datasets, s.toDatasets(result.Items, 0)...)

		if limit > 0 && len(datasets) >= limit {
			return datasets[:limit], nil
		}
		if result.LastEvaluatedKey == nil {
			return datasets, nil
		}
		startKey = result.LastEvaluatedKey
	}
}

// toDatasets unmarshals raw items, skipping malformed ones
func (s *DatasetStore) toDatasets(items []map[string]types.AttributeValue, limit int) []*entities.Dataset {
	datasets := make([]*entities.Dataset, 0, len(items))
	for _, raw := range items {
		var item datasetItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("Skipping malformed dataset item", zap.Error(err))
			continue
		}
		datasets = append(datasets, s.toDataset(item))
		if limit > 0 && len(datasets) >= limit {
			break
		}
	}
	return datasets
}

// toDataset reconstructs the entity. ReconstructDataset normalizes nil
// slices, so a dataset stored without keywords or tags comes back with empty
// sets rather than errors.
func (s *DatasetStore) toDataset(item datasetItem) *entities.Dataset {
	updatedAt, err := time.Parse(time.RFC3339, item.UpdatedAt)
	if err != nil {
		updatedAt = time.Time{}
	}

	return entities.ReconstructDataset(
		valueobjects.MustDatasetID(item.DatasetID),
		item.Name,
		item.Description,
		item.Keywords,
		item.Domains,
		item.Tags,
		entities.Agency{ID: item.AgencyID, Code: item.AgencyCode, Name: item.AgencyName},
		entities.Accessibility(item.Accessibility),
		item.IncomingRelations,
		item.OutgoingRelations,
		updatedAt,
	)
}

// buildSearchText flattens the searchable fields into one lowercased blob
// used by FindByTextMatch's contains filters.
func buildSearchText(d *entities.Dataset) string {
	parts := make([]string, 0, 2+len(d.Keywords())+len(d.Tags()))
	parts = append(parts, d.Name(), d.Description())
	parts = append(parts, d.Keywords()...)
	parts = append(parts, d.Tags()...)
	return strings.ToLower(strings.Join(parts, " "))
}
