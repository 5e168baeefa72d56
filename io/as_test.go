package io

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockChannel struct {
	sendCalls   []int64
	sendError   error
	receiveData []int64
}

func (mc *mockChannel) Rewind() {}

func (mc *mockChannel) Send(value int64) error {
	mc.sendCalls = append(mc.sendCalls, value)
	return mc.sendError
}

func (mc *mockChannel) Receive() (value int64, err error) {
	if len(mc.receiveData) == 0 {
		err = ErrChannelEmpty
		return
	}
	value = mc.receiveData[0]
	mc.receiveData = mc.receiveData[1:]
	return
}

func TestSendAll(t *testing.T) {
	assert := assert.New(t)

	mc := &mockChannel{}
	err := SendAll(mc, 1, -2, 3)
	assert.NoError(err)
	assert.Equal([]int64{1, -2, 3}, mc.sendCalls)
}

func TestSendAll_Error(t *testing.T) {
	assert := assert.New(t)

	boom := errors.New("boom")
	mc := &mockChannel{sendError: boom}
	err := SendAll(mc, 1, 2, 3)
	assert.Equal(boom, err)
	assert.Equal([]int64{1}, mc.sendCalls)
}

func TestSendString(t *testing.T) {
	assert := assert.New(t)

	mc := &mockChannel{}
	err := SendString(mc, "Hi\nλ")
	assert.NoError(err)
	assert.Equal([]int64{'H', 'i', '\n', 0x3bb}, mc.sendCalls)
}

func TestReceiveAll(t *testing.T) {
	assert := assert.New(t)

	mc := &mockChannel{receiveData: []int64{7, 8, 9}}
	assert.Equal([]int64{7, 8, 9}, slices.Collect(ReceiveAll(mc)))
	assert.Empty(mc.receiveData)
}

func TestReceiveAll_EarlyStop(t *testing.T) {
	assert := assert.New(t)

	mc := &mockChannel{receiveData: []int64{7, 8, 9}}
	for value := range ReceiveAll(mc) {
		assert.Equal(int64(7), value)
		break
	}
	assert.Equal([]int64{8, 9}, mc.receiveData)
}
