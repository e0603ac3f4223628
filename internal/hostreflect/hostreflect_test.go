package hostreflect

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type aStruct struct{ X int32 }

func TestIsValueType(t *testing.T) {
	assert.True(t, IsValueType(reflect.TypeOf(aStruct{})))
	assert.True(t, IsValueType(reflect.TypeOf(int32(0))))
	assert.False(t, IsValueType(reflect.TypeOf("")))
	assert.False(t, IsValueType(reflect.TypeOf(&aStruct{})))
}

func TestMakeArrayType(t *testing.T) {
	elem := reflect.TypeOf(int32(0))
	assert.Equal(t, reflect.SliceOf(elem), MakeArrayType(elem))
}

func TestIsAssignableFrom(t *testing.T) {
	assert.True(t, IsAssignableFrom(reflect.TypeOf(int32(0)), reflect.TypeOf(int32(0))))
	assert.False(t, IsAssignableFrom(reflect.TypeOf(int32(0)), reflect.TypeOf(int64(0))))
	assert.False(t, IsAssignableFrom(nil, reflect.TypeOf(int32(0))))
}

func TestGetConstructor_ExactSignatureMatch(t *testing.T) {
	declaring := reflect.TypeOf(&aStruct{})
	intType := reflect.TypeOf(int32(0))
	registry := []Ctor{
		{Declaring: declaring, Params: []reflect.Type{intType}, Fn: reflect.ValueOf(func(x int32) *aStruct { return &aStruct{X: x} })},
	}

	c, ok := GetConstructor(declaring, []reflect.Type{intType}, registry)
	assert.True(t, ok)
	assert.Equal(t, declaring, c.Declaring)

	_, ok = GetConstructor(declaring, nil, registry)
	assert.False(t, ok, "arity mismatch must not match")
}

func TestGetMethod_ExactNameAndSignatureMatch(t *testing.T) {
	intType := reflect.TypeOf(int32(0))
	registry := []Method{
		{Name: "Add", Params: []reflect.Type{intType, intType}, Fn: reflect.ValueOf(func(a, b int32) int32 { return a + b })},
	}

	m, ok := GetMethod("Add", []reflect.Type{intType, intType}, registry)
	assert.True(t, ok)
	assert.Equal(t, "Add", m.Name)

	_, ok = GetMethod("Add", []reflect.Type{intType}, registry)
	assert.False(t, ok, "arity mismatch must not match")

	_, ok = GetMethod("Missing", []reflect.Type{intType, intType}, registry)
	assert.False(t, ok, "unknown name must not match")
}

func TestFormatSignature(t *testing.T) {
	got := FormatSignature([]reflect.Type{reflect.TypeOf(int32(0)), reflect.TypeOf("")})
	assert.Equal(t, "(int32, string)", got)
	assert.Equal(t, "()", FormatSignature(nil))
}
