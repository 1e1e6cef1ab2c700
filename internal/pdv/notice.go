package pdv

import "errors"

// Messages shown to the operator when an operation fails.
const (
	MsgLoad           = "Erro ao carregar dados"
	MsgInit           = "Erro ao inicializar aplicação"
	MsgAddProduct     = "Erro ao adicionar produto"
	MsgUpdateProduct  = "Erro ao atualizar produto"
	MsgDeleteProduct  = "Erro ao remover produto"
	MsgImportProducts = "Erro ao importar produtos"
	MsgAddClient      = "Erro ao adicionar cliente"
	MsgUpdateClient   = "Erro ao atualizar cliente"
	MsgDeleteClient   = "Erro ao remover cliente"
	MsgAddToCart      = "Erro ao adicionar ao carrinho"
	MsgProcessSale    = "Erro ao processar venda"
	MsgDeleteSale     = "Erro ao excluir venda"
	MsgAddExchange    = "Erro ao registrar troca"
	MsgUpdateExchange = "Erro ao atualizar status da troca."
	MsgDeleteExchange = "Erro ao excluir troca"
	MsgSaveSettings   = "Erro ao salvar configurações"
	MsgOpenRegister   = "Valor de abertura inválido"
	MsgCloseRegister  = "O caixa não está aberto"
	MsgDailyProduct   = "Erro ao registrar produto no caixa"
)

type Kind int

const (
	// KindStorage is a failed record store call.
	KindStorage Kind = iota
	// KindValidation is input rejected before anything was written.
	KindValidation
	// KindNotFound is a reference to a record that is not loaded.
	KindNotFound
)

// Notice is the error returned by every failing Service operation. Message
// is meant for the operator; Err is the cause.
type Notice struct {
	Message string
	Kind    Kind
	Err     error
}

func (n *Notice) Error() string {
	if n.Err == nil {
		return n.Message
	}

	return n.Message + ": " + n.Err.Error()
}

func (n *Notice) Unwrap() error {
	return n.Err
}

// NoticeOf returns the Notice in err's chain, if any.
func NoticeOf(err error) (*Notice, bool) {
	var n *Notice
	ok := errors.As(err, &n)

	return n, ok
}

func storageFailure(msg string, err error) error {
	return &Notice{Message: msg, Kind: KindStorage, Err: err}
}

func invalid(msg string, err error) error {
	return &Notice{Message: msg, Kind: KindValidation, Err: err}
}

func notFound(msg string, err error) error {
	return &Notice{Message: msg, Kind: KindNotFound, Err: err}
}
