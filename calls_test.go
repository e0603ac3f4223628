package sigil

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallByName_RegisteredMethodResolves(t *testing.T) {
	e := NewEmitter("AddByName", nil, nil, DefaultConfig())
	e.RegisterMethod(Method{
		Name: "Add",
		Fn:   reflect.ValueOf(func(a, b int32) int32 { return a + b }),
	})

	require.NoError(t, e.LoadConstantInt32(1))
	require.NoError(t, e.LoadConstantInt32(2))

	result := Int32Type
	err := e.CallByName("Add", nil, false, &result, reflect.TypeOf(int32(0)), reflect.TypeOf(int32(0)))
	require.NoError(t, err)
	assert.Equal(t, "[Int32]", e.CurrentStack())
}

func TestCallByName_VirtualResolvesAgainstReceiverAndParams(t *testing.T) {
	e := NewEmitter("GreetByName", nil, nil, DefaultConfig())
	declaring := reflect.TypeOf(&widget{})
	e.RegisterMethod(Method{
		Name:    "Greet",
		Virtual: true,
		Fn:      reflect.ValueOf(func(w *widget, greeting string) string { return greeting + w.Name }),
	})

	e.RegisterConstructor(Ctor{Declaring: declaring, Fn: reflect.ValueOf(func() *widget { return &widget{} })})
	require.NoError(t, e.NewObjectOfTypes(declaring))
	require.NoError(t, e.LoadNull())

	result := ReferenceType(reflect.TypeOf(""))
	err := e.CallByName("Greet", declaring, true, &result, reflect.TypeOf(""))
	require.NoError(t, err)
}

func TestCallByName_NoMatchingMethod(t *testing.T) {
	e := NewEmitter("NoMethod", nil, nil, DefaultConfig())
	err := e.CallByName("Missing", nil, false, nil)
	require.Error(t, err)
	var verr *VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindNoSuchMethod, verr.Kind)
}

func TestCallByName_SignatureMismatchIsNoSuchMethod(t *testing.T) {
	e := NewEmitter("WrongArity", nil, nil, DefaultConfig())
	e.RegisterMethod(Method{
		Name: "Add",
		Fn:   reflect.ValueOf(func(a, b int32) int32 { return a + b }),
	})

	err := e.CallByName("Add", nil, false, nil, reflect.TypeOf(int32(0)))
	require.Error(t, err)
	var verr *VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindNoSuchMethod, verr.Kind)
}
