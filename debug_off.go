// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !pfordebug

package pfor

// debugEnabled is false in ordinary builds.
const debugEnabled = false

// recordTransition is a no-op outside pfordebug builds.
func recordTransition(slotIndex int, to workFlag) {}
