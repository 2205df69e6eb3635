package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"seguranca_xpto/internal/domain/entities"
	"seguranca_xpto/internal/domain/status"
	"seguranca_xpto/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultEstimatesTableName = "estimates"
	estimatesCustomerIDIndex  = "customer_id-index"
)

type estimateItem struct {
	ID          string `dynamodbav:"id"`
	CustomerID  string `dynamodbav:"customer_id"`
	SiteAddress string `dynamodbav:"site_address,omitempty"`
	Price       string `dynamodbav:"price"`

	WorkflowStatus    string `dynamodbav:"workflow_status"`
	QuoteStatus       string `dynamodbav:"quote_status,omitempty"`
	PhotosRequired    bool   `dynamodbav:"photos_required"`
	ApprovalRequested bool   `dynamodbav:"approval_requested"`
	AcceptanceEnabled bool   `dynamodbav:"acceptance_enabled"`
	ChangeRequestedAt string `dynamodbav:"change_requested_at,omitempty"`
	SentAt            string `dynamodbav:"sent_at,omitempty"`

	PhotosUploadedCount    int    `dynamodbav:"photos_uploaded_count"`
	PhotosSubmissionStatus string `dynamodbav:"photos_submission_status,omitempty"`
	PhotosReviewed         bool   `dynamodbav:"photos_reviewed"`

	InvoiceID string `dynamodbav:"invoice_id,omitempty"`

	CreatedAt string `dynamodbav:"created_at"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// EstimateDynamoRepository persists Estimate entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: customer_id-index (PK: customer_id)
//
// The item holds the raw metadata fields only. DisplayStatus is never written:
// it is derived per read from the snapshot projection.

type EstimateDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IEstimateRepository = (*EstimateDynamoRepository)(nil)

func NewEstimateDynamoRepository(ddb *dynamodb.Client) *EstimateDynamoRepository {
	return &EstimateDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("ESTIMATES_TABLE", defaultEstimatesTableName),
	}
}

func (r *EstimateDynamoRepository) Create(ctx context.Context, e entities.Estimate) (entities.Estimate, error) {
	it := toEstimateItem(e)
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.Estimate{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Estimate{}, err
	}
	return e, nil
}

func (r *EstimateDynamoRepository) GetByID(ctx context.Context, id string) (entities.Estimate, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Estimate{}, err
	}
	if len(out.Item) == 0 {
		return entities.Estimate{}, nil
	}

	var it estimateItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Estimate{}, err
	}
	return fromEstimateItem(it), nil
}

func (r *EstimateDynamoRepository) ListByCustomerID(ctx context.Context, customerID string) ([]entities.Estimate, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(estimatesCustomerIDIndex),
		KeyConditionExpression: aws.String("customer_id = :cid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cid": &types.AttributeValueMemberS{Value: customerID},
		},
	})
	if err != nil {
		return nil, err
	}

	items := make([]entities.Estimate, 0, len(out.Items))
	for _, raw := range out.Items {
		var it estimateItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		items = append(items, fromEstimateItem(it))
	}
	return items, nil
}

// Update writes the full mutable portion of the item back. Lifecycle actions
// touch several fields at once, so a whole-document SET is simpler and no less
// safe than per-field expressions; the condition still refuses phantom ids.
func (r *EstimateDynamoRepository) Update(ctx context.Context, e entities.Estimate) (entities.Estimate, error) {
	it := toEstimateItem(e)

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: e.ID},
		},
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression: aws.String("SET #price = :price, #workflow_status = :workflow_status, " +
			"#quote_status = :quote_status, #photos_required = :photos_required, " +
			"#approval_requested = :approval_requested, #acceptance_enabled = :acceptance_enabled, " +
			"#change_requested_at = :change_requested_at, #sent_at = :sent_at, " +
			"#photos_uploaded_count = :photos_uploaded_count, #photos_submission_status = :photos_submission_status, " +
			"#photos_reviewed = :photos_reviewed, #invoice_id = :invoice_id, #updated_at = :updated_at"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":price":                    &types.AttributeValueMemberN{Value: it.Price},
			":workflow_status":          &types.AttributeValueMemberS{Value: it.WorkflowStatus},
			":quote_status":             &types.AttributeValueMemberS{Value: it.QuoteStatus},
			":photos_required":          &types.AttributeValueMemberBOOL{Value: it.PhotosRequired},
			":approval_requested":       &types.AttributeValueMemberBOOL{Value: it.ApprovalRequested},
			":acceptance_enabled":       &types.AttributeValueMemberBOOL{Value: it.AcceptanceEnabled},
			":change_requested_at":      &types.AttributeValueMemberS{Value: it.ChangeRequestedAt},
			":sent_at":                  &types.AttributeValueMemberS{Value: it.SentAt},
			":photos_uploaded_count":    &types.AttributeValueMemberN{Value: strconv.Itoa(it.PhotosUploadedCount)},
			":photos_submission_status": &types.AttributeValueMemberS{Value: it.PhotosSubmissionStatus},
			":photos_reviewed":          &types.AttributeValueMemberBOOL{Value: it.PhotosReviewed},
			":invoice_id":               &types.AttributeValueMemberS{Value: it.InvoiceID},
			":updated_at":               &types.AttributeValueMemberS{Value: it.UpdatedAt},
		},
		ExpressionAttributeNames: map[string]string{
			"#id":                       "id",
			"#price":                    "price",
			"#workflow_status":          "workflow_status",
			"#quote_status":             "quote_status",
			"#photos_required":          "photos_required",
			"#approval_requested":       "approval_requested",
			"#acceptance_enabled":       "acceptance_enabled",
			"#change_requested_at":      "change_requested_at",
			"#sent_at":                  "sent_at",
			"#photos_uploaded_count":    "photos_uploaded_count",
			"#photos_submission_status": "photos_submission_status",
			"#photos_reviewed":          "photos_reviewed",
			"#invoice_id":               "invoice_id",
			"#updated_at":               "updated_at",
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Estimate{}, nil
		}
		return entities.Estimate{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Estimate{}, nil
	}
	var it2 estimateItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it2); err != nil {
		return entities.Estimate{}, err
	}
	return fromEstimateItem(it2), nil
}

func toEstimateItem(e entities.Estimate) estimateItem {
	return estimateItem{
		ID:          e.ID,
		CustomerID:  e.CustomerID,
		SiteAddress: e.SiteAddress,
		Price:       floatToString(e.Price),

		WorkflowStatus:    string(e.Workflow),
		QuoteStatus:       string(e.Quote),
		PhotosRequired:    e.PhotosRequired,
		ApprovalRequested: e.ApprovalRequested,
		AcceptanceEnabled: e.AcceptanceEnabled,
		ChangeRequestedAt: timeToString(e.ChangeRequestedAt),
		SentAt:            timeToString(e.SentAt),

		PhotosUploadedCount:    e.PhotosUploadedCount,
		PhotosSubmissionStatus: string(e.PhotosSubmissionStatus),
		PhotosReviewed:         e.PhotosReviewed,

		InvoiceID: e.InvoiceID,

		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: e.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromEstimateItem(it estimateItem) entities.Estimate {
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	price, _ := strconv.ParseFloat(it.Price, 64)
	return entities.Estimate{
		ID:          it.ID,
		CustomerID:  it.CustomerID,
		SiteAddress: it.SiteAddress,
		Price:       price,

		Workflow:          status.WorkflowStatus(it.WorkflowStatus),
		Quote:             status.QuoteStatus(it.QuoteStatus),
		PhotosRequired:    it.PhotosRequired,
		ApprovalRequested: it.ApprovalRequested,
		AcceptanceEnabled: it.AcceptanceEnabled,
		ChangeRequestedAt: timeFromString(it.ChangeRequestedAt),
		SentAt:            timeFromString(it.SentAt),

		PhotosUploadedCount:    it.PhotosUploadedCount,
		PhotosSubmissionStatus: status.SubmissionStatus(it.PhotosSubmissionStatus),
		PhotosReviewed:         it.PhotosReviewed,

		InvoiceID: it.InvoiceID,

		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

func floatToString(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func timeToString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func timeFromString(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return &t
}
