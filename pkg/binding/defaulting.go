package binding

import (
	"reflect"

	"github.com/vikstrom/soaphost/pkg/servicemodel"
)

// DefaultOutParameters fills every Out or InOut parameter slot still nil
// after binding with a pointer to the zero value of its element type: the
// all-zero value for GUID-like array types, the empty value for strings
// and slices, and a default-constructed instance otherwise. Idempotent:
// calling it twice on the same argument array is a no-op the second time,
// since an already-defaulted slot is no longer nil.
func DefaultOutParameters(op *servicemodel.OperationDescription, args []reflect.Value) {
	for i, p := range op.Parameters {
		if p.Direction != servicemodel.DirOut && p.Direction != servicemodel.DirInOut {
			continue
		}
		if !args[i].IsNil() {
			continue
		}
		elemType := p.Type.Elem()
		args[i].Set(reflect.New(elemType))
	}
}
