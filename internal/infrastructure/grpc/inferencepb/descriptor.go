// Package inferencepb describes the iphone_price_prediction.PricePrediction
// service at runtime. Messages are dynamicpb values built from the descriptor
// below, which mirrors api/proto/prediction.proto field for field, so the
// bytes on the wire are ordinary protobuf.
package inferencepb

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

const (
	protoPackage = "iphone_price_prediction"
	ServiceName  = protoPackage + ".PricePrediction"

	PredictPriceMethod = "/" + ServiceName + "/PredictPrice"
	GetModelInfoMethod = "/" + ServiceName + "/GetModelInfo"
	HealthCheckMethod  = "/" + ServiceName + "/HealthCheck"
)

var (
	File protoreflect.FileDescriptor

	priceRequestDesc        protoreflect.MessageDescriptor
	priceRangeDesc          protoreflect.MessageDescriptor
	priceResponseDesc       protoreflect.MessageDescriptor
	modelInfoRequestDesc    protoreflect.MessageDescriptor
	modelInfoResponseDesc   protoreflect.MessageDescriptor
	healthCheckRequestDesc  protoreflect.MessageDescriptor
	healthCheckResponseDesc protoreflect.MessageDescriptor
)

func init() {
	fd, err := protodesc.NewFile(fileProto(), new(protoregistry.Files))
	if err != nil {
		panic("inferencepb: build descriptor: " + err.Error())
	}
	File = fd
	msgs := fd.Messages()
	priceRequestDesc = msgs.ByName("PriceRequest")
	priceRangeDesc = msgs.ByName("PriceRange")
	priceResponseDesc = msgs.ByName("PriceResponse")
	modelInfoRequestDesc = msgs.ByName("ModelInfoRequest")
	modelInfoResponseDesc = msgs.ByName("ModelInfoResponse")
	healthCheckRequestDesc = msgs.ByName("HealthCheckRequest")
	healthCheckResponseDesc = msgs.ByName("HealthCheckResponse")
}

type fieldKind = descriptorpb.FieldDescriptorProto_Type

func field(name string, num int32, kind fieldKind) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(num),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   kind.Enum(),
	}
}

func repeated(f *descriptorpb.FieldDescriptorProto) *descriptorpb.FieldDescriptorProto {
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

func method(name, in, out string) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String("." + protoPackage + "." + in),
		OutputType: proto.String("." + protoPackage + "." + out),
	}
}

func fileProto() *descriptorpb.FileDescriptorProto {
	const (
		tInt32  = descriptorpb.FieldDescriptorProto_TYPE_INT32
		tDouble = descriptorpb.FieldDescriptorProto_TYPE_DOUBLE
		tString = descriptorpb.FieldDescriptorProto_TYPE_STRING
		tBool   = descriptorpb.FieldDescriptorProto_TYPE_BOOL
		tMsg    = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
	)
	priceRange := field("price_range", 3, tMsg)
	priceRange.TypeName = proto.String("." + protoPackage + ".PriceRange")

	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("prediction.proto"),
		Package: proto.String(protoPackage),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			message("PriceRequest",
				field("model_id", 1, tInt32),
				field("model_name", 2, tString),
				field("ram_gb", 3, tInt32),
				field("storage_gb", 4, tInt32),
				field("condition", 5, tString),
				field("release_year", 6, tInt32),
			),
			message("PriceRange",
				field("min_price", 1, tDouble),
				field("max_price", 2, tDouble),
			),
			message("PriceResponse",
				field("predicted_price", 1, tDouble),
				field("confidence_score", 2, tDouble),
				priceRange,
				field("status", 4, tString),
				field("message", 5, tString),
			),
			message("ModelInfoRequest",
				field("model_id", 1, tInt32),
			),
			message("ModelInfoResponse",
				field("model_name", 1, tString),
				field("release_year", 2, tInt32),
				repeated(field("available_storage", 3, tInt32)),
				field("ram_gb", 4, tInt32),
				field("is_pro", 5, tBool),
			),
			message("HealthCheckRequest",
				field("service", 1, tString),
			),
			message("HealthCheckResponse",
				field("status", 1, tString),
				field("version", 2, tString),
				field("model_loaded", 3, tBool),
				field("uptime", 4, tString),
			),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("PricePrediction"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("PredictPrice", "PriceRequest", "PriceResponse"),
				method("GetModelInfo", "ModelInfoRequest", "ModelInfoResponse"),
				method("HealthCheck", "HealthCheckRequest", "HealthCheckResponse"),
			},
		}},
	}
}
