package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"barterhub_server/models"
	"barterhub_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeTable keeps items in insertion order so stable sorts behave like the
// real store's scan over a single partition.
type fakeTable struct {
	order []string
	items map[string]map[string]types.AttributeValue
}

// fakeDynamo is an in-memory DynamoAPI used by the service tests. It mirrors
// the store semantics the services rely on: key lookups, equality and
// contains-any scan filters, in-memory ordering, and SET update expressions.
type fakeDynamo struct {
	tables map[string]*fakeTable

	scanErr   error
	updateErr error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{tables: map[string]*fakeTable{}}
}

func tableKeyAttr(tableName string) string {
	if tableName == models.UserProfilesTable {
		return "userId"
	}
	return "id"
}

func (fd *fakeDynamo) table(tableName string) *fakeTable {
	t, ok := fd.tables[tableName]
	if !ok {
		t = &fakeTable{items: map[string]map[string]types.AttributeValue{}}
		fd.tables[tableName] = t
	}
	return t
}

func (fd *fakeDynamo) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	keyValue := utils.ExtractString(key, tableKeyAttr(tableName))
	item, ok := fd.table(tableName).items[keyValue]
	if !ok {
		return nil, ErrNotFound
	}
	return item, nil
}

func (fd *fakeDynamo) PutItem(ctx context.Context, tableName string, item interface{}) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	keyValue := utils.ExtractString(marshaled, tableKeyAttr(tableName))
	if keyValue == "" {
		return errors.New("item has no key attribute")
	}
	t := fd.table(tableName)
	if _, exists := t.items[keyValue]; !exists {
		t.order = append(t.order, keyValue)
	}
	t.items[keyValue] = marshaled
	return nil
}

func (fd *fakeDynamo) UpdateItem(ctx context.Context, tableName string, updateExpression string, key map[string]types.AttributeValue, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string) (map[string]types.AttributeValue, error) {
	if fd.updateErr != nil {
		return nil, fd.updateErr
	}

	keyAttr := tableKeyAttr(tableName)
	keyValue := utils.ExtractString(key, keyAttr)
	t := fd.table(tableName)
	item, ok := t.items[keyValue]
	if !ok {
		item = map[string]types.AttributeValue{keyAttr: &types.AttributeValueMemberS{Value: keyValue}}
		t.order = append(t.order, keyValue)
		t.items[keyValue] = item
	}

	if !strings.HasPrefix(updateExpression, "SET ") {
		return nil, fmt.Errorf("unsupported update expression %q", updateExpression)
	}
	for _, clause := range strings.Split(strings.TrimPrefix(updateExpression, "SET "), ",") {
		parts := strings.Split(strings.TrimSpace(clause), " = ")
		if len(parts) != 2 {
			return nil, fmt.Errorf("unsupported update clause %q", clause)
		}
		attr, ok := expressionAttributeNames[parts[0]]
		if !ok {
			return nil, fmt.Errorf("unbound attribute name %q", parts[0])
		}
		value, ok := expressionAttributeValues[parts[1]]
		if !ok {
			return nil, fmt.Errorf("unbound attribute value %q", parts[1])
		}
		item[attr] = value
	}
	return item, nil
}

func (fd *fakeDynamo) DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error {
	keyValue := utils.ExtractString(key, tableKeyAttr(tableName))
	t := fd.table(tableName)
	delete(t.items, keyValue)
	for i, k := range t.order {
		if k == keyValue {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func (fd *fakeDynamo) ScanItems(ctx context.Context, tableName string, equals map[string]string, containsAnyField string, containsAny []string, orderBy string, descending bool) ([]map[string]types.AttributeValue, error) {
	if fd.scanErr != nil {
		return nil, fd.scanErr
	}
	if len(containsAny) > MaxContainsAnyValues {
		return nil, fmt.Errorf("contains-any filter supports at most %d values, got %d", MaxContainsAnyValues, len(containsAny))
	}

	t := fd.table(tableName)
	var items []map[string]types.AttributeValue
	for _, keyValue := range t.order {
		item := t.items[keyValue]
		if !matchesEquals(item, equals) {
			continue
		}
		if containsAnyField != "" && len(containsAny) > 0 && !containsAnyOf(item, containsAnyField, containsAny) {
			continue
		}
		items = append(items, item)
	}

	if orderBy != "" {
		sort.SliceStable(items, func(i, j int) bool {
			a := utils.ExtractString(items[i], orderBy)
			b := utils.ExtractString(items[j], orderBy)
			if descending {
				return a > b
			}
			return a < b
		})
	}
	return items, nil
}

func matchesEquals(item map[string]types.AttributeValue, equals map[string]string) bool {
	for field, want := range equals {
		if utils.ExtractString(item, field) != want {
			return false
		}
	}
	return true
}

func containsAnyOf(item map[string]types.AttributeValue, field string, values []string) bool {
	stored := utils.ExtractStringList(item, field)
	for _, have := range stored {
		for _, want := range values {
			if have == want {
				return true
			}
		}
	}
	return false
}

func (fd *fakeDynamo) BatchWriteItems(ctx context.Context, tableName string, writeRequests []types.WriteRequest) error {
	t := fd.table(tableName)
	for _, request := range writeRequests {
		if request.DeleteRequest != nil {
			keyValue := utils.ExtractString(request.DeleteRequest.Key, tableKeyAttr(tableName))
			if err := fd.DeleteItem(context.Background(), tableName, map[string]types.AttributeValue{
				tableKeyAttr(tableName): &types.AttributeValueMemberS{Value: keyValue},
			}); err != nil {
				return err
			}
		}
		if request.PutRequest != nil {
			keyValue := utils.ExtractString(request.PutRequest.Item, tableKeyAttr(tableName))
			if _, exists := t.items[keyValue]; !exists {
				t.order = append(t.order, keyValue)
			}
			t.items[keyValue] = request.PutRequest.Item
		}
	}
	return nil
}

func (fd *fakeDynamo) count(tableName string) int {
	return len(fd.table(tableName).items)
}

// fakeMedia is an in-memory MediaStore recording uploads and deletions.
type fakeMedia struct {
	uploads int
	deleted []string
}

func (fm *fakeMedia) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: cannot upload empty file", ErrInvalidInput)
	}
	fm.uploads++
	return fmt.Sprintf("https://media.test/media/blob-%d", fm.uploads), nil
}

func (fm *fakeMedia) Delete(ctx context.Context, publicURL string) error {
	fm.deleted = append(fm.deleted, publicURL)
	return nil
}

func seedProfile(fd *fakeDynamo, profile models.UserProfile) {
	if profile.CreatedAt == "" {
		profile.CreatedAt = "2024-01-01T00:00:00Z"
	}
	if err := fd.PutItem(context.Background(), models.UserProfilesTable, profile); err != nil {
		panic(err)
	}
}
