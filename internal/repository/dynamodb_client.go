package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"movie-crew-api/internal/domain"
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// *dynamodb.Client satisfies it.
type dynamodbAPI interface {
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Client wraps the DynamoDB crew table.
type Client struct {
	api       dynamodbAPI
	tableName string
}

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName}, nil
}

// QueryCrew returns every record stored under the exact (movieID, role) key,
// in the order DynamoDB returns them. Only the first result page is read.
func (c *Client) QueryCrew(ctx context.Context, movieID int, role string) ([]domain.CrewRecord, error) {
	in, err := c.crewQuery(movieID, role)
	if err != nil {
		return nil, fmt.Errorf("repository: QueryCrew build expression: %w", err)
	}

	out, err := c.api.Query(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("repository: QueryCrew query: %w", err)
	}
	if out == nil || len(out.Items) == 0 {
		return nil, nil
	}

	records := make([]domain.CrewRecord, 0, len(out.Items))
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, fmt.Errorf("repository: QueryCrew unmarshal: %w", err)
	}
	return records, nil
}

func (c *Client) crewQuery(movieID int, role string) (*dynamodb.QueryInput, error) {
	keyCond := expression.Key(domain.AttrMovieID).Equal(expression.Value(movieID)).
		And(expression.Key(domain.AttrCrewRole).Equal(expression.Value(role)))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, err
	}
	return &dynamodb.QueryInput{
		TableName:                 aws.String(c.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}, nil
}
