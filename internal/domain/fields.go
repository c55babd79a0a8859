package domain

// Canonical field keys. Every label variant found in a source document
// resolves to one of these; the template engine looks placeholders up against
// the same closed set so extractor and generator never drift apart.
const (
	FieldRadicado             = "RADICADO"
	FieldFechaRadicacion      = "FECHA_RADICACION"
	FieldResolucion           = "RESOLUCION"
	FieldFechaResolucion      = "FECHA_RESOLUCION"
	FieldDiaEmision           = "DIA_EMISION"
	FieldMesEmision           = "MES_EMISION"
	FieldAnoEmision           = "ANO_EMISION"
	FieldTipoSolicitante      = "TIPO_SOLICITANTE"
	FieldCategoria            = "CATEGORIA"
	FieldNombreSolicitante    = "NOMBRE_SOLICITANTE"
	FieldNitCC                = "NIT_CC"
	FieldRepresentanteLegal   = "REPRESENTANTE_LEGAL"
	FieldRepresentanteCC      = "REPRESENTANTE_CC"
	FieldSede                 = "SEDE"
	FieldDireccion            = "DIRECCION"
	FieldMunicipio            = "MUNICIPIO"
	FieldSubregion            = "SUBREGION"
	FieldTipoSolicitud        = "TIPO_DE_SOLICITUD"
	FieldEmailNotificacion    = "EMAIL_NOTIFICACION"
	FieldOPRNombre            = "OPR_NOMBRE"
	FieldOPRCC                = "OPR_CC"
	FieldObservaciones        = "OBSERVACIONES"
	FieldTipoEquipo           = "TIPO_DE_EQUIPO"
	FieldPractica             = "PRACTICA"
	FieldMarca                = "MARCA"
	FieldModelo               = "MODELO"
	FieldSerie                = "SERIE"
	FieldFechaFabricacion     = "FECHA_FABRICACION"
	FieldMarcaTubo            = "MARCA_TUBO"
	FieldModeloTubo           = "MODELO_TUBO"
	FieldSerieTubo            = "SERIE_TUBO"
	FieldFechaFabricacionTubo = "FECHA_FABRICACION_TUBO"
	FieldTension              = "TENSION"
	FieldCorriente            = "CORRIENTE"
	FieldPotencia             = "POTENCIA"
	FieldUbicacionEquipo      = "UBICACION_EQUIPO"
	FieldControlCalidad       = "CONTROL_CALIDAD"
	FieldFechaCC              = "FECHA_CC"
)

// EquipmentFieldKeys is the fixed, ordered key set of an equipment sub-record.
var EquipmentFieldKeys = []string{
	FieldTipoEquipo,
	FieldPractica,
	FieldCategoria,
	FieldMarca,
	FieldModelo,
	FieldSerie,
	FieldFechaFabricacion,
	FieldMarcaTubo,
	FieldModeloTubo,
	FieldSerieTubo,
	FieldFechaFabricacionTubo,
	FieldTension,
	FieldCorriente,
	FieldPotencia,
	FieldUbicacionEquipo,
	FieldControlCalidad,
	FieldFechaCC,
}

// DocumentFieldKeys is the full ordered vocabulary of document-level keys.
var DocumentFieldKeys = []string{
	FieldRadicado,
	FieldFechaRadicacion,
	FieldResolucion,
	FieldFechaResolucion,
	FieldDiaEmision,
	FieldMesEmision,
	FieldAnoEmision,
	FieldTipoSolicitante,
	FieldCategoria,
	FieldNombreSolicitante,
	FieldNitCC,
	FieldRepresentanteLegal,
	FieldRepresentanteCC,
	FieldSede,
	FieldDireccion,
	FieldMunicipio,
	FieldSubregion,
	FieldTipoSolicitud,
	FieldEmailNotificacion,
	FieldOPRNombre,
	FieldOPRCC,
	FieldObservaciones,
	FieldTipoEquipo,
	FieldPractica,
	FieldMarca,
	FieldModelo,
	FieldSerie,
	FieldFechaFabricacion,
	FieldMarcaTubo,
	FieldModeloTubo,
	FieldSerieTubo,
	FieldFechaFabricacionTubo,
	FieldTension,
	FieldCorriente,
	FieldPotencia,
	FieldUbicacionEquipo,
	FieldControlCalidad,
	FieldFechaCC,
}

var equipmentFieldSet = func() map[string]bool {
	m := make(map[string]bool, len(EquipmentFieldKeys))
	for _, k := range EquipmentFieldKeys {
		m[k] = true
	}
	return m
}()

// IsEquipmentField reports whether key belongs to the equipment sub-record set.
func IsEquipmentField(key string) bool {
	return equipmentFieldSet[key]
}
