package inferencepb

import (
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

type PriceRequest struct {
	ModelID     int32
	ModelName   string
	RAMGB       int32
	StorageGB   int32
	Condition   string
	ReleaseYear int32
}

type PriceRange struct {
	MinPrice float64
	MaxPrice float64
}

// PriceResponse.PriceRange is nil when the peer did not send the field.
type PriceResponse struct {
	PredictedPrice  float64
	ConfidenceScore float64
	PriceRange      *PriceRange
	Status          string
	Message         string
}

type ModelInfoRequest struct {
	ModelID int32
}

type ModelInfoResponse struct {
	ModelName        string
	ReleaseYear      int32
	AvailableStorage []int32
	RAMGB            int32
	IsPro            bool
}

type HealthCheckRequest struct {
	Service string
}

type HealthCheckResponse struct {
	Status      string
	Version     string
	ModelLoaded bool
	Uptime      string
}

type msg struct{ m *dynamicpb.Message }

func newMsg(d protoreflect.MessageDescriptor) msg { return msg{m: dynamicpb.NewMessage(d)} }

func wrap(m *dynamicpb.Message) msg { return msg{m: m} }

func (w msg) fd(name string) protoreflect.FieldDescriptor {
	return w.m.Descriptor().Fields().ByName(protoreflect.Name(name))
}

func (w msg) setInt(name string, v int32) {
	if v != 0 {
		w.m.Set(w.fd(name), protoreflect.ValueOfInt32(v))
	}
}

func (w msg) setFloat(name string, v float64) {
	if v != 0 {
		w.m.Set(w.fd(name), protoreflect.ValueOfFloat64(v))
	}
}

func (w msg) setString(name, v string) {
	if v != "" {
		w.m.Set(w.fd(name), protoreflect.ValueOfString(v))
	}
}

func (w msg) setBool(name string, v bool) {
	if v {
		w.m.Set(w.fd(name), protoreflect.ValueOfBool(v))
	}
}

func (w msg) getInt(name string) int32 { return int32(w.m.Get(w.fd(name)).Int()) }

func (w msg) getFloat(name string) float64 { return w.m.Get(w.fd(name)).Float() }

func (w msg) getString(name string) string { return w.m.Get(w.fd(name)).String() }

func (w msg) getBool(name string) bool { return w.m.Get(w.fd(name)).Bool() }

func (w msg) has(name string) bool { return w.m.Has(w.fd(name)) }

func (w msg) sub(name string) msg {
	return wrap(w.m.Get(w.fd(name)).Message().Interface().(*dynamicpb.Message))
}

func (w msg) mutableSub(name string) msg {
	return wrap(w.m.Mutable(w.fd(name)).Message().Interface().(*dynamicpb.Message))
}

func (r PriceRequest) Proto() *dynamicpb.Message {
	w := newMsg(priceRequestDesc)
	w.setInt("model_id", r.ModelID)
	w.setString("model_name", r.ModelName)
	w.setInt("ram_gb", r.RAMGB)
	w.setInt("storage_gb", r.StorageGB)
	w.setString("condition", r.Condition)
	w.setInt("release_year", r.ReleaseYear)
	return w.m
}

func PriceRequestFrom(m *dynamicpb.Message) PriceRequest {
	w := wrap(m)
	return PriceRequest{
		ModelID:     w.getInt("model_id"),
		ModelName:   w.getString("model_name"),
		RAMGB:       w.getInt("ram_gb"),
		StorageGB:   w.getInt("storage_gb"),
		Condition:   w.getString("condition"),
		ReleaseYear: w.getInt("release_year"),
	}
}

func (r PriceResponse) Proto() *dynamicpb.Message {
	w := newMsg(priceResponseDesc)
	w.setFloat("predicted_price", r.PredictedPrice)
	w.setFloat("confidence_score", r.ConfidenceScore)
	if r.PriceRange != nil {
		pr := w.mutableSub("price_range")
		pr.setFloat("min_price", r.PriceRange.MinPrice)
		pr.setFloat("max_price", r.PriceRange.MaxPrice)
	}
	w.setString("status", r.Status)
	w.setString("message", r.Message)
	return w.m
}

func PriceResponseFrom(m *dynamicpb.Message) PriceResponse {
	w := wrap(m)
	out := PriceResponse{
		PredictedPrice:  w.getFloat("predicted_price"),
		ConfidenceScore: w.getFloat("confidence_score"),
		Status:          w.getString("status"),
		Message:         w.getString("message"),
	}
	if w.has("price_range") {
		pr := w.sub("price_range")
		out.PriceRange = &PriceRange{MinPrice: pr.getFloat("min_price"), MaxPrice: pr.getFloat("max_price")}
	}
	return out
}

func (r ModelInfoRequest) Proto() *dynamicpb.Message {
	w := newMsg(modelInfoRequestDesc)
	w.setInt("model_id", r.ModelID)
	return w.m
}

func ModelInfoRequestFrom(m *dynamicpb.Message) ModelInfoRequest {
	return ModelInfoRequest{ModelID: wrap(m).getInt("model_id")}
}

func (r ModelInfoResponse) Proto() *dynamicpb.Message {
	w := newMsg(modelInfoResponseDesc)
	w.setString("model_name", r.ModelName)
	w.setInt("release_year", r.ReleaseYear)
	if len(r.AvailableStorage) > 0 {
		list := w.m.Mutable(w.fd("available_storage")).List()
		for _, s := range r.AvailableStorage {
			list.Append(protoreflect.ValueOfInt32(s))
		}
	}
	w.setInt("ram_gb", r.RAMGB)
	w.setBool("is_pro", r.IsPro)
	return w.m
}

func ModelInfoResponseFrom(m *dynamicpb.Message) ModelInfoResponse {
	w := wrap(m)
	out := ModelInfoResponse{
		ModelName:   w.getString("model_name"),
		ReleaseYear: w.getInt("release_year"),
		RAMGB:       w.getInt("ram_gb"),
		IsPro:       w.getBool("is_pro"),
	}
	list := m.Get(w.fd("available_storage")).List()
	for i := 0; i < list.Len(); i++ {
		out.AvailableStorage = append(out.AvailableStorage, int32(list.Get(i).Int()))
	}
	return out
}

func (r HealthCheckRequest) Proto() *dynamicpb.Message {
	w := newMsg(healthCheckRequestDesc)
	w.setString("service", r.Service)
	return w.m
}

func HealthCheckRequestFrom(m *dynamicpb.Message) HealthCheckRequest {
	return HealthCheckRequest{Service: wrap(m).getString("service")}
}

func (r HealthCheckResponse) Proto() *dynamicpb.Message {
	w := newMsg(healthCheckResponseDesc)
	w.setString("status", r.Status)
	w.setString("version", r.Version)
	w.setBool("model_loaded", r.ModelLoaded)
	w.setString("uptime", r.Uptime)
	return w.m
}

func HealthCheckResponseFrom(m *dynamicpb.Message) HealthCheckResponse {
	w := wrap(m)
	return HealthCheckResponse{
		Status:      w.getString("status"),
		Version:     w.getString("version"),
		ModelLoaded: w.getBool("model_loaded"),
		Uptime:      w.getString("uptime"),
	}
}
